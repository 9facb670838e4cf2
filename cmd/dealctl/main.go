package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/config"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/matching"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/pipeline"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/policy"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/storage"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/usecase"
)

var policyPath string

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Printf("skip .env (reason: %v)", err)
	}

	rootCmd := &cobra.Command{
		Use:   "dealctl",
		Short: "Wholesale deal evaluation and buyer matching",
	}
	rootCmd.PersistentFlags().StringVar(&policyPath, "policy", config.GetEnv("POLICY_PATH", "configs/policy.json"), "policy JSON file")

	rootCmd.AddCommand(createEvaluateCmd())
	rootCmd.AddCommand(createMatchCmd())
	rootCmd.AddCommand(createSeedCmd())
	rootCmd.AddCommand(createPolicyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadPolicy() policy.Policy {
	p, err := policy.LoadPolicyFromFile(policyPath)
	if err != nil {
		log.Printf("use default policy (reason: %v)", err)
		return policy.DefaultPolicy()
	}
	return p
}

func newDesk(p policy.Policy, repo usecase.DealRepository) *usecase.DealDesk {
	cfg := config.Load()
	engine := matching.NewEngine(p.Match, cfg.Matching())
	return usecase.NewDealDesk(repo, pipeline.NewEvaluator(p), engine)
}

func openStore(ctx context.Context) (*storage.Store, error) {
	cfg := config.Load()
	store, err := storage.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// inputFile is the shape read by evaluate and match: one property row plus its comps or buyers.
type inputFile struct {
	Property    storage.Row   `json:"property"`
	Comparables []storage.Row `json:"comparables"`
	Buyers      []storage.Row `json:"buyers"`
}

func readInput(path string) (inputFile, error) {
	var in inputFile
	b, err := os.ReadFile(path)
	if err != nil {
		return in, eris.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return in, eris.Wrapf(err, "unmarshal %s", path)
	}
	return in, nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal output")
	}
	fmt.Println(string(b))
	return nil
}

func createEvaluateCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "evaluate [file]",
		Short: "Value, price and classify a property",
		Long:  "Runs the evaluation pipeline over a JSON file {property, comparables}, or over a stored property with --id.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if id != "" {
				store, err := openStore(ctx)
				if err != nil {
					return err
				}
				defer store.Close()
				ev, err := newDesk(loadPolicy(), store).EvaluateProperty(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(ev)
			}
			if len(args) == 0 {
				return eris.New("need an input file or --id")
			}
			in, err := readInput(args[0])
			if err != nil {
				return err
			}
			ev := newDesk(loadPolicy(), nil).Evaluate(storage.DecodeProperty(in.Property), storage.DecodeComparables(in.Comparables))
			return printJSON(ev)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "evaluate a stored property and save the result")
	return cmd
}

func createMatchCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "match [file]",
		Short: "Rank buyers for a property",
		Long:  "Ranks the buyers of a JSON file {property, buyers}, or the stored buyers against a stored property with --id.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if id != "" {
				store, err := openStore(ctx)
				if err != nil {
					return err
				}
				defer store.Close()
				results, err := newDesk(loadPolicy(), store).MatchProperty(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(results)
			}
			if len(args) == 0 {
				return eris.New("need an input file or --id")
			}
			in, err := readInput(args[0])
			if err != nil {
				return err
			}
			results, err := newDesk(loadPolicy(), nil).Match(storage.DecodeProperty(in.Property), decodeBuyers(in.Buyers))
			if err != nil {
				return err
			}
			return printJSON(results)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "match a stored property against stored buyers")
	return cmd
}

// decodeBuyers keeps a missing buyers array distinct from an empty one.
func decodeBuyers(rows []storage.Row) []domain.BuyerRecord {
	if rows == nil {
		return nil
	}
	return storage.DecodeBuyers(rows)
}

func createSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file]",
		Short: "Load a JSON seed file {properties, comparables, buyers} into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := storage.LoadSeedFromFile(args[0])
			if err != nil {
				return err
			}
			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Seed(ctx, data); err != nil {
				return err
			}
			n, err := store.CountProperties(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("seeded %d properties, %d comparables, %d buyers (%d properties in store)\n",
				len(data.Properties), len(data.Comparables), len(data.Buyers), n)
			return nil
		},
	}
}

func createPolicyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Print the effective scoring policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(loadPolicy())
		},
	}
}
