package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/juststeveking/spacecount/internal/fetcher"
	"github.com/juststeveking/spacecount/internal/logging"
)

var fetchPeopleCmd = &cobra.Command{
	Use:   "fetch:people",
	Short: "Fetch the astronaut roster once",
	Long: `Fetch the people-in-space roster through the same cache and fallback
path the API uses and print it as JSON. The data source goes to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(logging.FormatText)
		if err != nil {
			return err
		}
		defer a.Close()

		out := a.people.Get(context.Background())
		return printOutcome(cmd, a.people, out.Source, out.StatusCode, out.Err, out.Value)
	},
}

var fetchISSCmd = &cobra.Command{
	Use:   "fetch:iss",
	Short: "Fetch the ISS position once",
	Long: `Fetch the ISS position through the same cache and fallback path the
API uses and print it as JSON. The data source goes to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(logging.FormatText)
		if err != nil {
			return err
		}
		defer a.Close()

		out := a.iss.Get(context.Background())
		return printOutcome(cmd, a.iss, out.Source, out.StatusCode, out.Err, out.Value)
	},
}

type resource interface {
	Name() string
	TTL() time.Duration
}

func printOutcome(cmd *cobra.Command, r resource, source fetcher.Source, status int, cause error, value interface{}) error {
	line := fmt.Sprintf("%s (ttl %s) source: %s, status: %d", r.Name(), r.TTL(), source, status)
	if cause != nil {
		line += fmt.Sprintf(", error: %v", cause)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), line)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func init() {
	rootCmd.AddCommand(fetchPeopleCmd)
	rootCmd.AddCommand(fetchISSCmd)
}
