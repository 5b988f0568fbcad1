package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"credsentry/internal/domain"
)

type checkOutput struct {
	Run      *runOutput      `json:"run,omitempty"`
	Verdicts []verdictOutput `json:"verdicts"`
}

type runOutput struct {
	ID           string  `json:"id"`
	ServiceName  *string `json:"service_name,omitempty"`
	Total        int     `json:"total"`
	NonCompliant int     `json:"non_compliant"`
}

type verdictOutput struct {
	PrincipalID string `json:"principal_id"`
	Outcome     string `json:"outcome"`
	Annotation  string `json:"annotation"`
}

func printVerdictsJSON(w io.Writer, run *domain.CheckRun, verdicts []domain.Verdict) error {
	out := checkOutput{Verdicts: make([]verdictOutput, len(verdicts))}
	if run != nil {
		out.Run = &runOutput{
			ID:           run.ID,
			ServiceName:  run.ServiceName,
			Total:        run.Total,
			NonCompliant: run.NonCompliant,
		}
	}
	for i, v := range verdicts {
		out.Verdicts[i] = verdictOutput{
			PrincipalID: v.PrincipalID,
			Outcome:     string(v.Outcome),
			Annotation:  v.Annotation,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printVerdictsTable(w io.Writer, verdicts []domain.Verdict) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRINCIPAL\tOUTCOME\tANNOTATION")
	for _, v := range verdicts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", v.PrincipalID, v.Outcome, v.Annotation)
	}
	_ = tw.Flush()

	nonCompliant := 0
	for _, v := range verdicts {
		if v.Outcome == domain.OutcomeNonCompliant {
			nonCompliant++
		}
	}
	fmt.Fprintf(w, "\n%d principal(s) evaluated, %d non-compliant\n", len(verdicts), nonCompliant)
}
