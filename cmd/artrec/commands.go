package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/engine"
	"github.com/rushteam/artrec/store"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate recommendations for every user and persist them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			top, _ := cmd.Flags().GetInt("top")

			e, st, err := engine.FromSettings(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := e.RunBatch(cmd.Context(), st, st, engine.BatchKeys{
				Profiles:        s.Data.ProfilesKey,
				Recommendations: s.Data.RecommendationsKey,
			}, top)
			if err != nil {
				return err
			}
			fmt.Printf("Generated recommendations for %d/%d users in %s (run %s)\n",
				res.Generated, res.Users, res.Duration.Round(time.Millisecond), res.RunID)
			return nil
		},
	}
	cmd.Flags().Int("top", 0, "Recommendations per user (default recommender.top_n)")
	return cmd
}

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Print recommendations for one user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			userID, _ := cmd.Flags().GetString("user")
			read, _ := cmd.Flags().GetStringSlice("read")
			top, _ := cmd.Flags().GetInt("top")

			e, st, err := engine.FromSettings(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer st.Close()

			if !cmd.Flags().Changed("read") {
				profiles, err := store.LoadProfiles(cmd.Context(), st, s.Data.ProfilesKey)
				if err != nil {
					return err
				}
				var ok bool
				if read, ok = profiles[userID]; !ok {
					return core.NewDomainError(core.ModuleProfile, core.ErrorCodeNotFound, "profile: unknown user "+userID)
				}
			}

			recs, err := e.RecommendForUser(cmd.Context(), userID, trimAll(read), top)
			if err != nil {
				return err
			}
			return printJSON(recs)
		},
	}
	cmd.Flags().String("user", "", "User id")
	cmd.Flags().StringSlice("read", nil, "Read article ids (default: the user's stored history)")
	cmd.Flags().Int("top", 0, "Number of recommendations (default recommender.top_n)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func similarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar <article-id>",
		Short: "Print articles similar to one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			top, _ := cmd.Flags().GetInt("top")

			e, st, err := engine.FromSettings(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := e.SimilarTo(cmd.Context(), args[0], top)
			if err != nil {
				return err
			}
			return printJSON(recs)
		},
	}
	cmd.Flags().Int("top", 0, "Number of results (default recommender.top_n)")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print corpus statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			e, st, err := engine.FromSettings(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer st.Close()

			stats, err := e.Stats(time.Now())
			if err != nil {
				return err
			}
			return printJSON(stats)
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func trimAll(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
