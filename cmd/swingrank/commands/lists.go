package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/swingrank/internal/contracts"
)

// listsCmd represents the lists command
var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Manage scan list membership",
	Long: `Inspect and edit the watchlists that scans run over.

Example:
  go run ./cmd/swingrank lists names
  go run ./cmd/swingrank lists show leading_stocks
  go run ./cmd/swingrank lists set leading_stocks AAPL NVDA MSFT`,
}

var (
	listsNamesCmd = &cobra.Command{
		Use:   "names",
		Short: "Show all list names",
		RunE:  showListNames,
	}

	listsShowCmd = &cobra.Command{
		Use:   "show [list_name]",
		Short: "Show the members of a list",
		Args:  cobra.ExactArgs(1),
		RunE:  showListMembers,
	}

	listsSetCmd = &cobra.Command{
		Use:   "set [list_name] [tickers...]",
		Short: "Replace the members of a list",
		Args:  cobra.MinimumNArgs(2),
		RunE:  setListMembers,
	}
)

func init() {
	rootCmd.AddCommand(listsCmd)
	listsCmd.AddCommand(listsNamesCmd)
	listsCmd.AddCommand(listsShowCmd)
	listsCmd.AddCommand(listsSetCmd)
}

func showListNames(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	names, err := a.lists.ListNames(context.Background())
	if err != nil {
		return fmt.Errorf("list names: %w", err)
	}

	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func showListMembers(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	members, err := a.lists.GetMembers(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("load members: %w", err)
	}

	fmt.Printf("%s (%d members)\n", args[0], len(members))
	for _, m := range members {
		fmt.Printf("  %-8s %-30s %s\n", m.Ticker, m.Name, m.Sector)
	}
	return nil
}

func setListMembers(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	listName := args[0]
	members := make([]contracts.TickerInfo, 0, len(args)-1)
	for _, ticker := range args[1:] {
		// Metadata gets filled by the profile scraper on the next scan
		members = append(members, contracts.TickerInfo{
			Ticker: strings.ToUpper(strings.TrimSpace(ticker)),
		})
	}

	if err := a.lists.SaveMembers(context.Background(), listName, members); err != nil {
		return fmt.Errorf("save members: %w", err)
	}

	fmt.Printf("Saved %d members to %s\n", len(members), listName)
	return nil
}
