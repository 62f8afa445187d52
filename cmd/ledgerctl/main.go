package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"courier-lab/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

// ledgerctl prints the transaction log of one account and reconciles
// it against the stored balance. Audit only: it opens the store
// read-only and never mutates anything.
func main() {
	_ = godotenv.Load()

	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	accountID := flag.String("account", "", "Account to audit")
	flag.Parse()

	if *accountID == "" {
		fmt.Fprintln(os.Stderr, "usage: ledgerctl -account <id> [-db <path>]")
		os.Exit(2)
	}

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	ledger := repositories.NewLedgerRepository(db, logs.GetLoggerFromString("ERROR"))

	balance, err := ledger.Balance(*accountID)
	if err != nil {
		log.Fatal("Account lookup failed: ", err)
	}
	entries, err := ledger.Transactions(*accountID)
	if err != nil {
		log.Fatal("Transaction scan failed: ", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Timestamp", "ID", "Kind", "Status", "Amount", "Description"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	var sum int64
	for _, entry := range entries {
		sum += entry.Amount
		table.Append([]string{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.ID.String()[:8],
			string(entry.Kind),
			string(entry.Status),
			fmt.Sprintf("%+d", entry.Amount),
			entry.Description,
		})
	}
	table.Render()

	header := fmt.Sprintf(" Account %s | %d transactions ", *accountID, len(entries))
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(header))
	fmt.Printf("Stored balance: %d | Sum of log: %d\n", balance, sum)

	// Every movement goes through the log, so the two must agree.
	if sum == balance {
		color.Green.Println("Ledger reconciles")
		return
	}
	color.Red.Printf("MISMATCH: drift of %d credits\n", balance-sum)
	os.Exit(1)
}
