package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aungmyo/shwebook/internal/domain"
	"github.com/aungmyo/shwebook/internal/infrastructure/auth"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shwebook-cli",
		Short: "Shwebook CLI tool",
		Long:  `A command line interface for interacting with the Shwebook API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Shwebook API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(summaryCmd(), txCmd(), ratesCmd(), backupCmd(), tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show all-time totals",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/reports/summary")
		},
	}
}

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Ledger operations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/transactions/")
		},
	}

	var (
		date     string
		desc     string
		amount   string
		txType   string
		category string
		currency string
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Run: func(cmd *cobra.Command, args []string) {
			body := map[string]string{
				"date":        date,
				"description": desc,
				"amount":      amount,
				"type":        txType,
				"category":    category,
				"currency":    currency,
			}
			postJSON("/api/v1/transactions/", body)
		},
	}
	addCmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "Transaction date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&desc, "desc", "", "Description")
	addCmd.Flags().StringVar(&amount, "amount", "", "Amount in the given currency")
	addCmd.Flags().StringVar(&txType, "type", string(domain.Expense), "INCOME, EXPENSE or SAVING")
	addCmd.Flags().StringVar(&category, "category", "", "Category label")
	addCmd.Flags().StringVar(&currency, "currency", string(domain.MMK), "MMK, THB, USD or SGD")
	addCmd.MarkFlagRequired("amount")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			del("/api/v1/transactions/" + args[0])
		},
	}

	cmd.AddCommand(listCmd, addCmd, rmCmd)
	return cmd
}

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Exchange rate operations",
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show the active rate table",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/rates/")
		},
	}

	var thb, usd, sgd, gold string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the rate table",
		Run: func(cmd *cobra.Command, args []string) {
			body := map[string]string{"THB": thb, "USD": usd, "SGD": sgd, "Gold": gold}
			putJSON("/api/v1/rates/", body)
		},
	}
	setCmd.Flags().StringVar(&thb, "thb", "", "MMK per THB")
	setCmd.Flags().StringVar(&usd, "usd", "", "MMK per USD")
	setCmd.Flags().StringVar(&sgd, "sgd", "", "MMK per SGD")
	setCmd.Flags().StringVar(&gold, "gold", "", "MMK per tical of gold")
	setCmd.MarkFlagRequired("thb")
	setCmd.MarkFlagRequired("usd")
	setCmd.MarkFlagRequired("sgd")
	setCmd.MarkFlagRequired("gold")

	cmd.AddCommand(getCmd, setCmd)
	return cmd
}

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Backup operations",
	}

	var out string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export a backup of the current workspace",
		Run: func(cmd *cobra.Command, args []string) {
			if out == "" {
				getJSON("/api/v1/backup/export")
				return
			}
			raw := fetchRaw("/api/v1/backup/export")
			if err := os.WriteFile(out, raw, 0o644); err != nil {
				fmt.Printf("Error writing backup file: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Wrote %s\n", out)
		},
	}
	exportCmd.Flags().StringVar(&out, "out", "", "Write the backup to a file instead of stdout")

	var file string
	var yes bool
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Restore a backup file, replacing the current workspace",
		Run: func(cmd *cobra.Command, args []string) {
			if !yes {
				fmt.Println("Import replaces the current workspace. Re-run with --yes to confirm.")
				os.Exit(1)
			}
			raw, err := os.ReadFile(file)
			if err != nil {
				fmt.Printf("Error reading backup file: %v\n", err)
				os.Exit(1)
			}
			postRaw("/api/v1/backup/import?confirm=true", raw)
		},
	}
	importCmd.Flags().StringVar(&file, "file", "", "Path to the backup file")
	importCmd.Flags().BoolVar(&yes, "yes", false, "Confirm the destructive import")
	importCmd.MarkFlagRequired("file")

	cmd.AddCommand(exportCmd, importCmd)
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret string
		uid    string
		name   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a sign-in token",
		Run: func(cmd *cobra.Command, args []string) {
			manager := auth.NewJWTManager(secret, ttl)
			token, err := manager.Generate(&domain.UserProfile{ID: uid, Name: name})
			if err != nil {
				fmt.Printf("Error generating token: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(token)
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (must match AUTH_JWT_SECRET)")
	cmd.Flags().StringVar(&uid, "uid", "", "Profile id")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 720*time.Hour, "Token lifetime")
	cmd.MarkFlagRequired("secret")
	cmd.MarkFlagRequired("uid")
	return cmd
}

func fetchRaw(path string) []byte {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}
	return body
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	printResponse(resp)
}

func postJSON(path string, body any) {
	raw, err := json.Marshal(body)
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		os.Exit(1)
	}
	postRaw(path, raw)
}

func postRaw(path string, raw []byte) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	printResponse(resp)
}

func putJSON(path string, body any) {
	raw, err := json.Marshal(body)
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPut, baseURL+path, bytes.NewReader(raw))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	printResponse(resp)
}

func del(path string) {
	req, err := http.NewRequest(http.MethodDelete, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		fmt.Println("OK")
		return
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}
