package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Cheertaboi/deal-service/internal/models"
	"github.com/Cheertaboi/deal-service/internal/service"
)

// EvaluateCmd runs the availability evaluator against a deal stored as JSON,
// without touching any store.
type EvaluateCmd struct {
	File string `arg:"" help:"Deal JSON file, as returned by GET /deals/{id}." type:"existingfile"`
	At   string `help:"Instant to evaluate at (RFC3339). Defaults to now."`
}

func (c *EvaluateCmd) Run(app *appContext) error {
	b, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	var p models.Promotion
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("decode %s: %w", c.File, err)
	}

	at := time.Now()
	if c.At != "" {
		if at, err = time.Parse(time.RFC3339, c.At); err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
	}

	return printAvailability(os.Stdout, &p, service.Evaluate(&p, at, app.cfg.Location), at.In(app.cfg.Location))
}

func printAvailability(w io.Writer, p *models.Promotion, av models.Availability, at time.Time) error {
	fmt.Fprintf(w, "Evaluated at: %s\n", at.Format(time.RFC3339))
	fmt.Fprintf(w, "Status:       %s\n", av.Status)
	if av.NextAvailable != nil {
		fmt.Fprintf(w, "Next window:  %s\n", av.NextAvailable.Format("Mon 2 Jan 15:04 MST"))
	}
	if p.ExpiryDate != nil {
		fmt.Fprintf(w, "Expires:      %s\n", p.ExpiryDate)
	}
	_, err := fmt.Fprintf(w, "Schedule (%s):\n%s\n", p.Schedule.Kind(), p.Schedule.Summary())
	return err
}
