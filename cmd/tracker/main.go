package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-money-tracker/internal/facades"
	"github.com/sbilibin2017/gw-money-tracker/internal/logger"
	"github.com/sbilibin2017/gw-money-tracker/internal/models"
	"github.com/sbilibin2017/gw-money-tracker/internal/repositories"
	"github.com/sbilibin2017/gw-money-tracker/internal/services"
	"github.com/sbilibin2017/gw-money-tracker/internal/validators"
)

const usage = `usage: tracker [-c config.env] <command> [flags]

commands:
  list     [-type T] [-category C] [-from YYYY-MM-DD] [-to YYYY-MM-DD]
  get      -id ID
  add      -type T -amount N -category C [-description D] [-date YYYY-MM-DD]
  edit     -id ID [-type T] [-amount N] [-category C] [-description D] [-date YYYY-MM-DD]
  delete   -id ID
  migrate  copy local transactions to the remote API
  status   show the active store and the local transaction count
  summary  totals, balance and top categories
  clear    -yes  remove every local transaction
`

var errUsage = errors.New("invalid usage")

func main() {
	configPath, args, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := parseConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, args, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags parses the global flags and returns the config path and the command line left over.
func parseFlags(args []string) (configPath string, rest []string, err error) {
	fs := flag.NewFlagSet("tracker", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c := fs.String("c", "config.env", "Path to configuration file")
	if err = fs.Parse(args); err != nil {
		return "", nil, err
	}
	return *c, fs.Args(), nil
}

// run initializes the logger and the transaction service and executes one command.
func run(ctx context.Context, cfg config, args []string, out io.Writer) error {
	if err := logger.Initialize(cfg.LogLevel, "console"); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Log.Debugw("identity provider",
		"region", cfg.AuthRegion,
		"userPoolId", cfg.UserPoolID,
		"userPoolClientId", cfg.UserPoolClientID,
	)

	return execute(ctx, newService(cfg), args, out)
}

// newService builds the transaction service over the local file store and, when an
// endpoint is configured, the remote API.
func newService(cfg config) *services.TransactionService {
	local := repositories.NewLocalTransactionRepository(repositories.NewFileStorage(cfg.DataDir))

	var remote services.RemoteTransactions
	if cfg.APIEndpoint != "" {
		remote = facades.NewTransactionsAPIFacade(cfg.APIEndpoint,
			facades.WithToken(cfg.APIToken),
			facades.WithTimeout(cfg.HTTPTimeout),
		)
	}

	return services.NewTransactionService(remote, local, validators.New(), cfg.RemoteEnabled)
}

// execute runs the command named by args[0] and writes its JSON result to out.
func execute(ctx context.Context, svc *services.TransactionService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "list":
		return listCommand(ctx, svc, args, out)
	case "get":
		return getCommand(ctx, svc, args, out)
	case "add":
		return addCommand(ctx, svc, args, out)
	case "edit":
		return editCommand(ctx, svc, args, out)
	case "delete":
		return deleteCommand(ctx, svc, args, out)
	case "migrate":
		results, err := svc.MigrateToRemote(ctx)
		if err != nil {
			return err
		}
		return writeJSON(out, results)
	case "status":
		return writeJSON(out, svc.Status(ctx))
	case "summary":
		return writeJSON(out, svc.Summary(ctx))
	case "clear":
		return clearCommand(ctx, svc, args, out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func listCommand(ctx context.Context, svc *services.TransactionService, args []string, out io.Writer) error {
	fs := newFlagSet("list")
	typ := fs.String("type", "", "expense or credit")
	category := fs.String("category", "", "exact category")
	from := fs.String("from", "", "first date, inclusive")
	to := fs.String("to", "", "last date, inclusive")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	txns := svc.Filter(ctx, models.TransactionFilter{
		Type:     models.TransactionType(*typ),
		Category: *category,
		From:     *from,
		To:       *to,
	})
	return writeJSON(out, txns)
}

func getCommand(ctx context.Context, svc *services.TransactionService, args []string, out io.Writer) error {
	fs := newFlagSet("get")
	id := fs.String("id", "", "transaction id")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *id == "" {
		return fmt.Errorf("%w: -id is required", errUsage)
	}

	txn, err := svc.Get(ctx, *id)
	if err != nil {
		return err
	}
	return writeJSON(out, txn)
}

func addCommand(ctx context.Context, svc *services.TransactionService, args []string, out io.Writer) error {
	fs := newFlagSet("add")
	typ := fs.String("type", "", "expense or credit")
	amount := fs.String("amount", "", "positive amount")
	category := fs.String("category", "", "category")
	description := fs.String("description", "", "free text")
	date := fs.String("date", time.Now().Format(models.DateLayout), "calendar date")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	in := models.TransactionInput{
		Type:        models.TransactionType(*typ),
		Category:    *category,
		Description: *description,
		Date:        *date,
	}
	if *amount != "" {
		d, err := decimal.NewFromString(*amount)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", *amount, err)
		}
		in.Amount = d
	}

	txn, err := svc.Create(ctx, in)
	if err != nil {
		return err
	}
	return writeJSON(out, txn)
}

func editCommand(ctx context.Context, svc *services.TransactionService, args []string, out io.Writer) error {
	fs := newFlagSet("edit")
	id := fs.String("id", "", "transaction id")
	typ := fs.String("type", "", "expense or credit")
	amount := fs.String("amount", "", "positive amount")
	category := fs.String("category", "", "category")
	description := fs.String("description", "", "free text")
	date := fs.String("date", "", "calendar date")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *id == "" {
		return fmt.Errorf("%w: -id is required", errUsage)
	}

	// only flags given on the command line end up in the patch
	var patch models.TransactionPatch
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "type":
			t := models.TransactionType(*typ)
			patch.Type = &t
		case "amount":
			d, err := decimal.NewFromString(*amount)
			if err != nil {
				parseErr = fmt.Errorf("invalid amount %q: %w", *amount, err)
				return
			}
			patch.Amount = &d
		case "category":
			patch.Category = category
		case "description":
			patch.Description = description
		case "date":
			patch.Date = date
		}
	})
	if parseErr != nil {
		return parseErr
	}

	txn, err := svc.Update(ctx, *id, patch)
	if err != nil {
		return err
	}
	return writeJSON(out, txn)
}

func deleteCommand(ctx context.Context, svc *services.TransactionService, args []string, out io.Writer) error {
	fs := newFlagSet("delete")
	id := fs.String("id", "", "transaction id")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *id == "" {
		return fmt.Errorf("%w: -id is required", errUsage)
	}

	deleted, err := svc.Delete(ctx, *id)
	if err != nil {
		return err
	}
	return writeJSON(out, map[string]any{"id": *id, "deleted": deleted})
}

func clearCommand(ctx context.Context, svc *services.TransactionService, args []string, out io.Writer) error {
	fs := newFlagSet("clear")
	yes := fs.Bool("yes", false, "confirm removal of every local transaction")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if !*yes {
		return errors.New("refusing to clear local transactions without -yes")
	}

	if err := svc.ClearLocal(ctx); err != nil {
		return err
	}
	return writeJSON(out, svc.Status(ctx))
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
