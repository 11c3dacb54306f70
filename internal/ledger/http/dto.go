package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/chantier-erp/chantier-erp/internal/ledger"
	"github.com/chantier-erp/chantier-erp/internal/ledger/export"
)

const queryDateLayout = "2006-01-02"

// exportQuery is the parsed query string of the export endpoints.
type exportQuery struct {
	Preset  string `validate:"omitempty,oneof=current-month previous-month current-quarter current-year"`
	From    string `validate:"omitempty,datetime=2006-01-02"`
	To      string `validate:"omitempty,datetime=2006-01-02"`
	Format  string `validate:"omitempty,oneof=csv fec excel"`
	Journal string `validate:"omitempty,oneof=all VE AC BQ"`
	Page    int    `validate:"gte=0"`
}

func parseExportQuery(r *http.Request) exportQuery {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	return exportQuery{
		Preset:  q.Get("preset"),
		From:    q.Get("from"),
		To:      q.Get("to"),
		Format:  q.Get("format"),
		Journal: q.Get("journal"),
		Page:    page,
	}
}

// toRequest converts validated query values into a service request. Partial
// explicit bounds fall back to the preset path, which itself defaults to the
// current month.
func (q exportQuery) toRequest() export.Request {
	req := export.Request{
		Preset:  ledger.Preset(q.Preset),
		Format:  export.Format(q.Format),
		Journal: q.Journal,
	}
	if q.Preset == "" {
		req.Preset = ledger.PresetCurrentMonth
	}
	if q.From != "" && q.To != "" {
		from, _ := time.Parse(queryDateLayout, q.From)
		to, _ := time.Parse(queryDateLayout, q.To)
		req.From = &from
		req.To = &to
	}
	return req
}

// key is the singleflight collapse key: two requests with the same key must
// produce the same bytes.
func (q exportQuery) key() string {
	return q.Preset + "|" + q.From + "|" + q.To + "|" + q.Format + "|" + q.Journal
}

// entryView is the JSON row shape of the preview table.
type entryView struct {
	Date        string `json:"date"`
	Reference   string `json:"reference"`
	Label       string `json:"label"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	AccountCode string `json:"accountCode"`
	JournalCode string `json:"journalCode"`
}

type previewView struct {
	PeriodFrom string         `json:"periodFrom"`
	PeriodTo   string         `json:"periodTo"`
	Entries    []entryView    `json:"entries"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Pages      int            `json:"pages"`
	Summary    ledger.Summary `json:"summary"`
	Balanced   bool           `json:"balanced"`
	Difference string         `json:"difference"`
}

func toPreviewView(p export.Preview) previewView {
	views := make([]entryView, 0, len(p.Entries))
	for _, e := range p.Entries {
		views = append(views, entryView{
			Date:        e.Date.Format("02/01/2006"),
			Reference:   e.Reference,
			Label:       e.Label,
			Debit:       e.Debit.StringFixed(2),
			Credit:      e.Credit.StringFixed(2),
			AccountCode: e.AccountCode,
			JournalCode: e.JournalCode,
		})
	}
	return previewView{
		PeriodFrom: p.Period.From.Format(queryDateLayout),
		PeriodTo:   p.Period.To.Format(queryDateLayout),
		Entries:    views,
		Total:      p.Total,
		Page:       p.Page,
		Pages:      p.Pages,
		Summary:    p.Summary,
		Balanced:   p.Balance.Balanced,
		Difference: p.Balance.Difference.StringFixed(2),
	}
}
