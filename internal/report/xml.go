package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/gstr1-reconciler/internal/job"
)

// The XML summary carries the two aggregates, not the row-level tables:
//
//	<gstr1Reconciliation jobId="..." company="1000" generated="...">
//	  <gstSummary>
//	    <account type="Central GST Payable" glPayable="-45.00" tbDifference="45.00" netDifference="0.00"/>
//	  </gstSummary>
//	  <salesSummary>
//	    <category label="B2B Supplies" rows="12" taxableValue="..." igst="..." cgst="..." sgst="..."/>
//	  </salesSummary>
//	  <gstins><gstin>29AAACB1234F1Z5</gstin></gstins>
//	</gstr1Reconciliation>
type xmlDocument struct {
	XMLName   xml.Name `xml:"gstr1Reconciliation"`
	JobID     string   `xml:"jobId,attr"`
	Company   string   `xml:"company,attr,omitempty"`
	Generated string   `xml:"generated,attr"`

	Accounts   []xmlAccount  `xml:"gstSummary>account"`
	TBOnly     []string      `xml:"tbOnly>account,omitempty"`
	Categories []xmlCategory `xml:"salesSummary>category"`
	GSTINs     []string      `xml:"gstins>gstin"`
}

type xmlAccount struct {
	Type          string `xml:"type,attr"`
	GLPayable     string `xml:"glPayable,attr"`
	TBDifference  string `xml:"tbDifference,attr"`
	NetDifference string `xml:"netDifference,attr"`
}

type xmlCategory struct {
	Label        string `xml:"label,attr"`
	Rows         int    `xml:"rows,attr"`
	TaxableValue string `xml:"taxableValue,attr"`
	IGST         string `xml:"igst,attr"`
	CGST         string `xml:"cgst,attr"`
	SGST         string `xml:"sgst,attr"`
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

// WriteXML renders the GST summary and the sales aggregate of res as XML.
func WriteXML(w io.Writer, res job.Result, company string) error {
	doc := xmlDocument{
		JobID:     res.ID,
		Company:   company,
		Generated: res.StartedAt.UTC().Format(time.RFC3339),
		TBOnly:    res.TBOnly,
		GSTINs:    res.GSTINs,
	}
	for _, rec := range res.Summary {
		doc.Accounts = append(doc.Accounts, xmlAccount{
			Type:          rec.AccountType,
			GLPayable:     money(rec.GLPayable),
			TBDifference:  money(rec.TBDifference),
			NetDifference: money(rec.NetDifference),
		})
	}
	for _, total := range res.SalesSummary {
		doc.Categories = append(doc.Categories, xmlCategory{
			Label:        total.Label,
			Rows:         total.Rows,
			TaxableValue: money(total.TaxableValue),
			IGST:         money(total.IGSTAmt),
			CGST:         money(total.CGSTAmt),
			SGST:         money(total.SGSTAmt),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode XML: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
