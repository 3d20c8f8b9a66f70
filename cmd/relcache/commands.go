package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/relcache"
)

func newFlushCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "flush [pattern]",
		Short: "Delete every key in the namespace matching pattern (default *)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}
			n, err := a.cache.DelByPattern(cmd.Context(), pattern)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d keys matching %s\n", n, relcache.Namespace(a.cache.Prefix(), pattern))
			return nil
		},
	}
}

func newInvalidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate <entity> <id>",
		Short: "Remove every cached result depending on an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := relcache.ParseEntityType(args[0])
			if err != nil {
				return err
			}
			if err := a.cache.RemoveRelations(cmd.Context(), args[1], t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "invalidated %s\n", relcache.Ref(t, args[1]))
			return nil
		},
	}
}

func newDepsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deps <entity> <id>",
		Short: "List cache keys registered against an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := relcache.ParseEntityType(args[0])
			if err != nil {
				return err
			}
			keys, err := a.cache.SMembers(cmd.Context(), relcache.Ref(t, args[1]).DependencyKey())
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a cached scalar or collection as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var out any
			v, ok, err := relcache.Get[any](ctx, a.cache, args[0])
			if err != nil {
				return err
			}
			if ok {
				out = v
			} else {
				items, ok, err := relcache.GetAll[any](ctx, a.cache, args[0])
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "(miss)")
					return nil
				}
				out = items
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
