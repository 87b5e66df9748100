package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kavin/cogniquest/internal/region"
)

var regionCmd = &cobra.Command{
	Use:   "region [text]",
	Short: "Find the region mentioned in text, or detect it by IP address",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, cleanup, err := prepare(cmd, false)
		if err != nil {
			return err
		}
		defer cleanup()

		w := cmd.OutOrStdout()
		if flagBool(cmd, "list") {
			listRegions(w)
			return nil
		}
		if flagBool(cmd, "detect") {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithTimeout(ctx, cfg.Region.Timeout)
			defer cancel()
			r := region.NewGeoIPResolver(cfg.Region.GeoIPURL, &http.Client{Timeout: cfg.Region.Timeout})
			return detectRegion(ctx, w, r)
		}
		if len(args) == 0 {
			return fmt.Errorf("give some text, --detect or --list")
		}
		return extractRegion(w, strings.Join(args, " "))
	},
}

func init() {
	regionCmd.Flags().Bool("detect", false, "Detect the region from this host's IP address")
	regionCmd.Flags().Bool("list", false, "List every known region")
}

func extractRegion(w io.Writer, text string) error {
	r, ok := region.Extract(text)
	if !ok {
		return fmt.Errorf("no region found in %q", text)
	}
	fmt.Fprintln(w, r.String())
	return nil
}

func detectRegion(ctx context.Context, w io.Writer, r region.Resolver) error {
	info, err := r.Resolve(ctx)
	if err != nil {
		return err
	}
	if info == nil {
		return fmt.Errorf("region could not be determined")
	}
	fmt.Fprintln(w, info.String())
	return nil
}

func listRegions(w io.Writer) {
	for _, r := range region.All() {
		fmt.Fprintf(w, "%-3s %s\n", r.Abbreviation, r.FullName)
	}
}
