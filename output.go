package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/techagentng/wefixsa/models"
)

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func printReports(reports []models.Report) {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{r.ID, r.Title, r.Category, r.Municipality, r.Status.String(), r.SubmittedBy, formatTime(r.CreatedAt)})
	}
	printTable([]string{"ID", "TITLE", "CATEGORY", "MUNICIPALITY", "STATUS", "SUBMITTED BY", "CREATED"}, rows)
}

func printReport(r *models.Report) {
	printKV([][2]string{
		{"id", r.ID},
		{"title", r.Title},
		{"category", r.Category},
		{"description", r.Description},
		{"location", r.Location},
		{"address", r.Address},
		{"city", r.City},
		{"municipality", r.Municipality},
		{"status", r.Status.String()},
		{"submitted by", r.SubmittedBy},
		{"created", formatTime(r.CreatedAt)},
		{"updated", formatTime(r.UpdatedAt)},
		{"admin note", r.AdminNote},
		{"image", r.ImageURL},
	})
}

func printCounts(c models.StatusCounts) {
	printKV([][2]string{
		{"total", strconv.Itoa(c.Total)},
		{"submitted", strconv.Itoa(c.Submitted)},
		{"in progress", strconv.Itoa(c.InProgress)},
		{"resolved", strconv.Itoa(c.Resolved)},
		{"rejected", strconv.Itoa(c.Rejected)},
	})
}

func printCatalog(c models.Catalog) {
	statuses := make([]string, 0, len(c.Statuses))
	for _, s := range c.Statuses {
		statuses = append(statuses, s.String())
	}
	printKV([][2]string{
		{"categories", strings.Join(c.Categories, ", ")},
		{"municipalities", strings.Join(c.Municipalities, ", ")},
		{"statuses", strings.Join(statuses, ", ")},
	})
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
