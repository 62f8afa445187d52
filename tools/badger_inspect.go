package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"courier-lab/domain"
	"courier-lab/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, tx:, acct:, conv:, contact:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Entity ID", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			err := item.Value(func(v []byte) error {
				table.Append(describe(rawKey, v))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

// describe renders one stored value as a table row by key family.
func describe(key string, val []byte) []string {
	switch {
	case strings.HasPrefix(key, "msg:"):
		var message repositories.DiskMessage
		if err := json.Unmarshal(val, &message); err != nil {
			return []string{key, "MESSAGE", "--:--:--", "--------", "Error: unmarshal failed"}
		}
		return []string{key, "MESSAGE", message.At.Format("15:04:05"), shortID(message.ID.String()),
			fmt.Sprintf("[%s] %s", message.Channel, message.Text)}

	case strings.HasPrefix(key, "tx:"):
		var tx domain.CreditTransaction
		if err := json.Unmarshal(val, &tx); err != nil {
			return []string{key, "LEDGER", "--:--:--", "--------", "Error: unmarshal failed"}
		}
		return []string{key, "LEDGER", tx.CreatedAt.Format("15:04:05"), shortID(tx.ID.String()),
			fmt.Sprintf("%s %s %+d %s", tx.Kind, tx.Status, tx.Amount, tx.Description)}

	case strings.HasPrefix(key, "acct:"):
		var account domain.Account
		if err := json.Unmarshal(val, &account); err != nil {
			return []string{key, "ACCOUNT", "--:--:--", "--------", "Error: unmarshal failed"}
		}
		return []string{key, "ACCOUNT", "--:--:--", shortID(account.ID),
			fmt.Sprintf("balance=%d", account.CreditBalance)}

	case strings.HasPrefix(key, "conv:"):
		var conversation domain.Conversation
		if err := json.Unmarshal(val, &conversation); err != nil {
			return []string{key, "CONV", "--:--:--", "--------", "Error: unmarshal failed"}
		}
		return []string{key, "CONV", "--:--:--", shortID(conversation.ID),
			fmt.Sprintf("stage=%s score=%d last=%s", conversation.Stage, conversation.IntentScore, conversation.LastChannelUsed)}

	case strings.HasPrefix(key, "contact:"):
		var contact domain.Contact
		if err := json.Unmarshal(val, &contact); err != nil {
			return []string{key, "CONTACT", "--:--:--", "--------", "Error: unmarshal failed"}
		}
		return []string{key, "CONTACT", "--:--:--", shortID(contact.ID),
			fmt.Sprintf("%s kind=%s bot=%t", contact.DisplayName, contact.Kind, contact.Bot)}
	}
	return []string{key, "RAW", "--:--:--", "--------", fmt.Sprintf("Size: %d bytes", len(val))}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil {
		if strings.Contains(err.Error(), "Log truncate required") {
			// Open in write mode once to allow the truncate, then reopen read-only.
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}
			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
