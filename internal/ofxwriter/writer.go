// =============================================================================
// CSV to OFX/QIF Converter - OFX Serializer
// =============================================================================
//
// This module renders grouped transactions as an OFX 2.x document: a sign-on
// block followed by one statement response per account. Output is produced
// incrementally, one account group at a time, so the document is streamed
// rather than buffered whole.
//
// Determinism: every run over the same input must produce byte-identical
// output, so DTSERVER is derived from the statement dates rather than the
// wall clock, and transaction ids for mappings without an id accessor are
// content hashes, not random values.
//
// Known limitation: the ledger balance is the running sum of the group's
// amounts; a starting balance is assumed to be zero because CSV exports do
// not carry one.
//
// =============================================================================

package ofxwriter

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/csv2ofx/internal/mapping"
	"github.com/ginjaninja78/csv2ofx/internal/types"
)

const (
	ofxDateLayout = "20060102"

	header = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<?OFX OFXHEADER="200" VERSION="202" SECURITY="NONE" OLDFILEUID="NONE" NEWFILEUID="NONE"?>
`
)

// element is one node of the OFX document tree. An element has either a text
// value or children, never both.
type element struct {
	name     string
	value    string
	children []element
}

func simple(name, value string) element {
	return element{name: name, value: value}
}

// Write serializes groups as an OFX document to w, one statement per account
// group.
func Write(groups *types.AccountGroups, m *mapping.ResolvedMapping, w io.Writer) error {
	if err := validCurrency(m.Currency); err != nil {
		return err
	}

	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<OFX>\n"); err != nil {
		return err
	}

	var buf bytes.Buffer
	writeElement(&buf, signOn(serverDate(groups)), "  ", 1)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}

	wrapper := "BANKMSGSRSV1"
	if m.AccountType == mapping.AccountTypeCCard {
		wrapper = "CREDITCARDMSGSRSV1"
	}
	if _, err := fmt.Fprintf(w, "  <%s>\n", wrapper); err != nil {
		return err
	}

	for i, account := range groups.Accounts() {
		buf.Reset()
		writeElement(&buf, statement(account, groups.Transactions(account), m, i), "  ", 2)
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "  </%s>\n", wrapper); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</OFX>\n")
	return err
}

// validCurrency checks the ISO 4217 shape OFX requires for CURDEF.
func validCurrency(code string) error {
	if len(code) != 3 {
		return &types.SerializationError{
			Format: "OFX",
			Reason: fmt.Sprintf("currency code %q is not a 3-letter ISO 4217 code", code),
		}
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return &types.SerializationError{
				Format: "OFX",
				Reason: fmt.Sprintf("currency code %q is not a 3-letter ISO 4217 code", code),
			}
		}
	}
	return nil
}

// serverDate picks the DTSERVER value: the latest transaction date in the
// document. Derived from data, not the clock, so reruns are byte-identical.
func serverDate(groups *types.AccountGroups) time.Time {
	var latest time.Time
	for _, account := range groups.Accounts() {
		for _, t := range groups.Transactions(account) {
			if t.Date.After(latest) {
				latest = t.Date
			}
		}
	}
	if latest.IsZero() {
		latest = time.Unix(0, 0).UTC()
	}
	return latest
}

func signOn(dtServer time.Time) element {
	return element{name: "SIGNONMSGSRSV1", children: []element{
		{name: "SONRS", children: []element{
			{name: "STATUS", children: []element{
				simple("CODE", "0"),
				simple("SEVERITY", "INFO"),
			}},
			simple("DTSERVER", dtServer.Format(ofxDateLayout)),
			simple("LANGUAGE", "ENG"),
		}},
	}}
}

// statement builds the STMTTRNRS (or CCSTMTTRNRS) element for one account
// group. trnIndex keeps TRNUIDs unique and stable across the document.
func statement(account string, txns []types.Transaction, m *mapping.ResolvedMapping, trnIndex int) element {
	dtStart, dtEnd := dateRange(txns)

	tranList := element{name: "BANKTRANLIST", children: []element{
		simple("DTSTART", dtStart.Format(ofxDateLayout)),
		simple("DTEND", dtEnd.Format(ofxDateLayout)),
	}}

	balance := decimal.Zero
	for i, t := range txns {
		balance = balance.Add(t.Amount)
		tranList.children = append(tranList.children, stmtTrn(t, i))
	}

	stmtRS := element{name: "STMTRS", children: []element{
		simple("CURDEF", m.Currency),
		acctFrom(account, m),
		tranList,
		{name: "LEDGERBAL", children: []element{
			simple("BALAMT", balance.StringFixed(2)),
			simple("DTASOF", dtEnd.Format(ofxDateLayout)),
		}},
	}}

	rsName, wrapName := "STMTTRNRS", "STMTRS"
	if m.AccountType == mapping.AccountTypeCCard {
		rsName, wrapName = "CCSTMTTRNRS", "CCSTMTRS"
	}
	stmtRS.name = wrapName

	return element{name: rsName, children: []element{
		simple("TRNUID", fmt.Sprintf("%d", trnIndex+1)),
		{name: "STATUS", children: []element{
			simple("CODE", "0"),
			simple("SEVERITY", "INFO"),
		}},
		stmtRS,
	}}
}

func acctFrom(account string, m *mapping.ResolvedMapping) element {
	if m.AccountType == mapping.AccountTypeCCard {
		return element{name: "CCACCTFROM", children: []element{
			simple("ACCTID", account),
		}}
	}
	return element{name: "BANKACCTFROM", children: []element{
		simple("BANKID", "0"),
		simple("ACCTID", account),
		simple("ACCTTYPE", "CHECKING"),
	}}
}

func dateRange(txns []types.Transaction) (time.Time, time.Time) {
	if len(txns) == 0 {
		epoch := time.Unix(0, 0).UTC()
		return epoch, epoch
	}
	start, end := txns[0].Date, txns[0].Date
	for _, t := range txns[1:] {
		if t.Date.Before(start) {
			start = t.Date
		}
		if t.Date.After(end) {
			end = t.Date
		}
	}
	return start, end
}

func stmtTrn(t types.Transaction, index int) element {
	trnType := "CREDIT"
	if t.Amount.IsNegative() {
		trnType = "DEBIT"
	}

	el := element{name: "STMTTRN", children: []element{
		simple("TRNTYPE", trnType),
		simple("DTPOSTED", t.Date.Format(ofxDateLayout)),
		simple("TRNAMT", t.Amount.StringFixed(2)),
		simple("FITID", fitID(t, index)),
	}}
	if t.CheckNum != "" {
		el.children = append(el.children, simple("CHECKNUM", t.CheckNum))
	}
	if t.Payee != "" {
		el.children = append(el.children, simple("NAME", t.Payee))
	}
	if t.Notes != "" {
		el.children = append(el.children, simple("MEMO", t.Notes))
	}
	return el
}

// fitID returns the institution-supplied transaction id, or a deterministic
// content hash when the mapping declares no id accessor. The group-relative
// index disambiguates otherwise identical transactions, and the hash is
// stable across runs so re-imports deduplicate cleanly.
func fitID(t types.Transaction, index int) string {
	if t.ID != "" {
		return t.ID
	}
	h := sha1.New()
	fmt.Fprintf(h, "%s|%s|%s|%d", t.Date.Format(ofxDateLayout), t.Amount.String(), t.Payee, index)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// writeElement writes an element to the buffer with indentation.
func writeElement(buf *bytes.Buffer, el element, indent string, level int) {
	for i := 0; i < level; i++ {
		buf.WriteString(indent)
	}

	buf.WriteString("<")
	buf.WriteString(el.name)
	buf.WriteString(">")

	if len(el.children) == 0 {
		buf.WriteString(escapeXML(el.value))
	} else {
		buf.WriteString("\n")
		for _, child := range el.children {
			writeElement(buf, child, indent, level+1)
		}
		for i := 0; i < level; i++ {
			buf.WriteString(indent)
		}
	}

	buf.WriteString("</")
	buf.WriteString(el.name)
	buf.WriteString(">\n")
}

// escapeXML escapes special characters for XML text content.
func escapeXML(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&apos;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
