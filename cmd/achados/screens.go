package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/leeozaka/achados/internal/router"
)

var screensCmd = &cobra.Command{
	Use:   "screens",
	Short: "List the screens accepted by --screen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeScreens(cmd.OutOrStdout())
	},
}

func writeScreens(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCREEN\tPATH\tACCESS\tTITLE")
	for _, id := range router.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, id.Path(), tierName(id.Tier()), id.Title())
	}
	return w.Flush()
}

func tierName(t router.Tier) string {
	switch t {
	case router.TierUser:
		return "login"
	case router.TierAdmin:
		return "admin"
	}
	return "public"
}
