package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/onasu66/totalcash/internal/bonus"
	"github.com/onasu66/totalcash/internal/commands"
	"github.com/onasu66/totalcash/internal/report"
	"github.com/onasu66/totalcash/internal/transcript"
	"github.com/onasu66/totalcash/internal/types"
)

type CLI struct {
	commands.CommonConfig

	Ingest  IngestCmd  `cmd:"" help:"Extract transactions from a pasted chat transcript and record them"`
	Add     AddCmd     `cmd:"" help:"Record a single manually-typed entry"`
	List    ListCmd    `cmd:"" help:"Show the live day's transactions and totals"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a transaction from the live day by index"`
	Archive ArchiveCmd `cmd:"" help:"Browse, keep, or delete archived days"`
	Export  ExportCmd  `cmd:"" help:"Export a day's transactions as CSV"`
	History HistoryCmd `cmd:"" help:"Show the append-only transaction history"`
}

// IngestCmd runs the transcript segmenter over a whole day's chat export.
type IngestCmd struct {
	File      string `help:"Transcript file to read (defaults to stdin)" type:"existingfile"`
	Reference bool   `help:"Also show the reference-only pass over non-trigger turns" default:"false"`
	DryRun    bool   `help:"Print extracted transactions without recording them" default:"false"`
}

func (c *IngestCmd) Run(cfg *commands.CommonConfig) error {
	logger := commands.SetupLogger(*cfg)

	text, err := readInput(c.File)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("transcript is empty")
	}

	seg := transcript.New(bonus.Default())
	lines := strings.Split(text, "\n")
	txs := seg.Segment(lines)

	if c.Reference {
		ref := seg.SegmentReference(lines)
		fmt.Printf("Reference pass (not recorded): %d candidate transactions\n", len(ref))
		for _, tx := range ref {
			fmt.Printf("  %s | %s | %s | %d\n", tx.Operator, tx.Store, tx.Content, tx.Amount)
		}
		fmt.Println()
	}

	if len(txs) == 0 {
		fmt.Println("No transactions found in transcript")
		return nil
	}

	if c.DryRun {
		fmt.Printf("Extracted %d transactions (dry run, not recorded):\n", len(txs))
		for _, tx := range txs {
			fmt.Printf("  %s | %s | %s | %d\n", tx.Operator, tx.Store, tx.Content, tx.Amount)
		}
		return nil
	}

	return record(cfg, logger, txs)
}

// AddCmd records one manual entry: an operator name plus a store/amount
// block (two lines, or one combined line split heuristically).
type AddCmd struct {
	Operator string `help:"Name of the person recording the entry" required:""`
	File     string `help:"Entry block to read (defaults to stdin)" type:"existingfile"`
}

func (c *AddCmd) Run(cfg *commands.CommonConfig) error {
	logger := commands.SetupLogger(*cfg)

	block, err := readInput(c.File)
	if err != nil {
		return err
	}

	seg := transcript.New(bonus.Default())
	txs, err := seg.ParseEntry(c.Operator, block)
	if err != nil {
		return err
	}

	return record(cfg, logger, txs)
}

// record appends transactions to the live day and mirrors them into the
// history database. History failures are warnings; the ledger stays
// authoritative.
func record(cfg *commands.CommonConfig, logger *log.Logger, txs []types.Transaction) error {
	led, err := commands.SetupLedger(*cfg, logger)
	if err != nil {
		return err
	}

	hist, err := commands.SetupHistory(*cfg, logger)
	if err != nil {
		logger.Warn("history database unavailable", "error", err)
		hist = nil
	} else {
		defer hist.Close()
	}

	ctx := context.Background()
	for _, tx := range txs {
		recorded := led.Append(tx)
		if hist != nil {
			if err := hist.Record(ctx, led.CurrentDay().Date, recorded); err != nil {
				logger.Warn("failed to record history entry", "error", err)
			}
		}
		fmt.Printf("Recorded: %s | %s | %s | %d\n", recorded.Operator, recorded.Store, recorded.Content, recorded.Amount)
	}

	day := led.CurrentDay()
	fmt.Printf("\nLive day %s: %d transactions, total %d\n", day.Date, len(day.Transactions), report.GrandTotal(day))
	return nil
}

// ListCmd prints the live day with per-store and per-operator totals.
type ListCmd struct{}

func (c *ListCmd) Run(cfg *commands.CommonConfig) error {
	logger := commands.SetupLogger(*cfg)

	led, err := commands.SetupLedger(*cfg, logger)
	if err != nil {
		return err
	}

	printDay(led.CurrentDay())
	return nil
}

// DeleteCmd removes one live-day transaction by its listed index.
type DeleteCmd struct {
	Index int `arg:"" help:"Index of the transaction to delete (as shown by list)"`
}

func (c *DeleteCmd) Run(cfg *commands.CommonConfig) error {
	logger := commands.SetupLogger(*cfg)

	led, err := commands.SetupLedger(*cfg, logger)
	if err != nil {
		return err
	}

	if err := led.DeleteAt(c.Index); err != nil {
		return err
	}
	fmt.Printf("Deleted transaction %d\n", c.Index)
	return nil
}

// ArchiveCmd groups the archive operations.
type ArchiveCmd struct {
	List   ArchiveListCmd   `cmd:"" help:"List archived days with totals"`
	Keep   ArchiveKeepCmd   `cmd:"" help:"Copy the live day into the archive without waiting for rollover"`
	Delete ArchiveDeleteCmd `cmd:"" help:"Delete one archived day"`
}

type ArchiveListCmd struct{}

func (c *ArchiveListCmd) Run(cfg *commands.CommonConfig) error {
	logger := commands.SetupLogger(*cfg)

	led, err := commands.SetupLedger(*cfg, logger)
	if err != nil {
		return err
	}

	days := led.ListArchive()
	if len(days) == 0 {
		fmt.Println("No archived days")
		return nil
	}
	for _, day := range days {
		fmt.Printf("%s: %d transactions, total %d\n", day.Date, len(day.Transactions), report.GrandTotal(day))
	}
	return nil
}

type ArchiveKeepCmd struct{}

func (c *ArchiveKeepCmd) Run(cfg *commands.CommonConfig) error {
	logger := commands.SetupLogger(*cfg)

	led, err := commands.SetupLedger(*cfg, logger)
	if err != nil {
		return err
	}

	led.ArchiveCurrentDay()
	day := led.CurrentDay()
	fmt.Printf("Kept a copy of %s (%d transactions)\n", day.Date, len(day.Transactions))
	return nil
}

type ArchiveDeleteCmd struct {
	Date string `arg:"" help:"Archived date to delete (YYYY-MM-DD)"`
}

func (c *ArchiveDeleteCmd) Run(cfg *commands.CommonConfig) error {
	logger := commands.SetupLogger(*cfg)

	led, err := commands.SetupLedger(*cfg, logger)
	if err != nil {
		return err
	}

	if err := led.DeleteArchived(c.Date); err != nil {
		return err
	}
	fmt.Printf("Deleted archived day %s\n", c.Date)
	return nil
}

// ExportCmd writes one day (live by default) as a flat CSV table.
type ExportCmd struct {
	Date   string `help:"Business date to export (defaults to the live day)"`
	Output string `help:"Output file (defaults to stdout)"`
}

func (c *ExportCmd) Run(cfg *commands.CommonConfig) error {
	logger := commands.SetupLogger(*cfg)

	led, err := commands.SetupLedger(*cfg, logger)
	if err != nil {
		return err
	}

	day := led.CurrentDay()
	if c.Date != "" {
		var ok bool
		if day, ok = led.Day(c.Date); !ok {
			return fmt.Errorf("no day recorded for %s", c.Date)
		}
	}

	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return report.WriteCSV(w, day)
}

// HistoryCmd lists entries from the append-only history database.
type HistoryCmd struct {
	Since string `help:"Earliest business date to show (YYYY-MM-DD)"`
}

func (c *HistoryCmd) Run(cfg *commands.CommonConfig) error {
	logger := commands.SetupLogger(*cfg)

	hist, err := commands.SetupHistory(*cfg, logger)
	if err != nil {
		return err
	}
	defer hist.Close()

	entries, err := hist.Since(context.Background(), c.Since)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No history entries")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s %s | %s | %s | %s | %d\n", e.BusinessDate, e.Time, e.Operator, e.Store, e.Content, e.Amount)
	}
	return nil
}

func printDay(day types.BusinessDay) {
	fmt.Printf("Business day %s: %d transactions\n\n", day.Date, len(day.Transactions))
	for i, tx := range day.Transactions {
		fmt.Printf("%3d. %s | %s | %s | %s | %d\n", i, tx.Time, tx.Operator, tx.Store, tx.Content, tx.Amount)
	}
	if len(day.Transactions) == 0 {
		return
	}

	fmt.Printf("\nTotals by store:\n")
	for _, t := range report.Ranked(report.SumByStore(day)) {
		fmt.Printf("  %s: %d\n", t.Name, t.Amount)
	}
	fmt.Printf("\nTotals by operator:\n")
	for _, t := range report.Ranked(report.SumByOperator(day)) {
		fmt.Printf("  %s: %d\n", t.Name, t.Amount)
	}
	fmt.Printf("\nGrand total: %d\n", report.GrandTotal(day))
}

func readInput(file string) (string, error) {
	var data []byte
	var err error
	if file != "" {
		data, err = os.ReadFile(file)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("totalcash"),
		kong.Description("Extract and aggregate cash transactions from chat transcripts"),
		kong.UsageOnError(),
	)

	err := ctx.Run(&cli.CommonConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
