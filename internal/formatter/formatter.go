// package formatter exports event collections to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/evently/evently/internal/models"
	"github.com/evently/evently/internal/shared"
)

const timeLayout = "2006-01-02 15:04"

// ExportToCSV converts an event collection to CSV with columns:
// ID, Title, Organizer, DateTime, Location, Attendees, Description
func ExportToCSV(events []models.Event) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Organizer", "DateTime", "Location", "Attendees", "Description"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, event := range events {
		record := []string{
			event.ID,
			event.EventTitle,
			event.OrganizerName,
			event.DateTime.Format(timeLayout),
			event.Location,
			strconv.Itoa(event.AttendeeCount),
			event.Description,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an event collection to a Markdown document.
func ExportToMarkdown(events []models.Event, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Events"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Exported**: %s\n", time.Now().Format(timeLayout)))
	buf.WriteString(fmt.Sprintf("**Count**: %d\n\n", len(events)))

	for _, event := range events {
		buf.WriteString(fmt.Sprintf("## %s\n\n", event.EventTitle))
		buf.WriteString(fmt.Sprintf("- Posted by %s\n", event.OrganizerName))
		buf.WriteString(fmt.Sprintf("- %s\n", event.DateTime.Format(timeLayout)))
		buf.WriteString(fmt.Sprintf("- %s\n", event.Location))
		buf.WriteString(fmt.Sprintf("- %d attendees\n\n", event.AttendeeCount))
		if event.Description != "" {
			buf.WriteString(event.Description + "\n\n")
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts an event collection to plain text.
func ExportToText(events []models.Event) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Events: %d\n\n", len(events)))
	for i, event := range events {
		buf.WriteString(fmt.Sprintf("%d. %s — %s @ %s (%d attendees)\n",
			i+1, event.EventTitle, event.DateTime.Format(timeLayout), event.Location, event.AttendeeCount))
	}

	return buf.Bytes(), nil
}

// ToJSON generates a JSON representation of the collection.
func ToJSON(events []models.Event) ([]byte, error) {
	return shared.MarshalJSON(events, true)
}

// WriteExport renders the collection in the given format (csv, markdown, txt,
// json) and writes it to path. An empty path derives one from the format.
// Returns the path written.
func WriteExport(events []models.Event, format, path string) (string, error) {
	var (
		data []byte
		err  error
		ext  string
	)

	switch strings.ToLower(format) {
	case "csv":
		data, err = ExportToCSV(events)
		ext = "csv"
	case "markdown", "md":
		data, err = ExportToMarkdown(events, "")
		ext = "md"
	case "txt", "text", "":
		data, err = ExportToText(events)
		ext = "txt"
	case "json":
		data, err = ToJSON(events)
		ext = "json"
	default:
		return "", fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return "", err
	}

	if path == "" {
		path = fmt.Sprintf("events_%d.%s", time.Now().Unix(), ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
