package columns

// Semantic field keys. These are the only names the core uses to address
// source columns.
const (
	DocumentType        = "document_type"
	InvoiceType         = "invoice_type"
	TaxRate             = "tax_rate"
	TaxableValue        = "taxable_value"
	IGSTAmount          = "igst_amount"
	CGSTAmount          = "cgst_amount"
	SGSTAmount          = "sgst_amount"
	GSTIN               = "gstin"
	SalesDocumentNumber = "sales_document_number"
	GLAccountLongText   = "gl_account_long_text"
	GLAccountCode       = "gl_account_code"
	CurrencyValue       = "currency_value"
	GLDocumentNumber    = "gl_document_number"
	TBAccountLongText   = "tb_account_long_text"
	TBDebit             = "tb_debit"
	TBCredit            = "tb_credit"
)

// SalesFields are resolved against the combined sales register.
var SalesFields = []string{
	DocumentType, InvoiceType, TaxRate,
	TaxableValue, IGSTAmount, CGSTAmount, SGSTAmount,
	GSTIN, SalesDocumentNumber,
}

// SalesMonetaryFields are the four columns the sign policy applies to.
var SalesMonetaryFields = []string{TaxableValue, IGSTAmount, CGSTAmount, SGSTAmount}

// GLFields are resolved against the general-ledger dump.
var GLFields = []string{GLAccountLongText, GLAccountCode, CurrencyValue, GLDocumentNumber}

// TBFields are resolved against the trial balance.
var TBFields = []string{TBAccountLongText, TBDebit, TBCredit}

// DefaultSpecs returns the built-in field map. The returned map is a fresh
// copy and may be modified by the caller.
//
// The trial-balance period tokens carry a leading space (" d", " c") because
// "period" itself contains a "d"; the space pins the token to the trailing
// debit/credit marker of headers like "Period 09 D".
func DefaultSpecs() map[string]FieldSpec {
	return map[string]FieldSpec{
		DocumentType:        {Label: "Document Type", Exact: true},
		InvoiceType:         {Label: "Invoice type", Exact: true},
		TaxRate:             {Label: "Tax rate", Exact: true},
		TaxableValue:        {Label: "Taxable value", Tokens: []string{"taxable", "value"}},
		IGSTAmount:          {Label: "IGST Amt", Tokens: []string{"igst", "amt"}},
		CGSTAmount:          {Label: "CGST Amt", Tokens: []string{"cgst", "amt"}},
		SGSTAmount:          {Label: "SGST/UTGST Amt", Tokens: []string{"sgst", "amt"}},
		GSTIN:               {Label: "GSTIN of Taxpayer", Tokens: []string{"gstin"}},
		SalesDocumentNumber: {Label: "Document Number", Tokens: []string{"document"}, Exclude: []string{"type", "date"}},
		GLAccountLongText:   {Label: "G/L Account: Long Text", Tokens: []string{"g/l", "account|acct", "long", "text"}},
		GLAccountCode:       {Label: "G/L Account", Tokens: []string{"g/l", "account|acct"}, Exclude: []string{"long", "text"}},
		CurrencyValue:       {Label: "Company Code Currency Value", Tokens: []string{"value"}},
		GLDocumentNumber:    {Label: "Document Number", Tokens: []string{"document"}, Exclude: []string{"type", "date"}},
		TBAccountLongText:   {Label: "G/L Acct Long Text", Tokens: []string{"g/l", "account|acct", "long", "text"}},
		TBDebit:             {Label: "Period D", Tokens: []string{"period", " d"}},
		TBCredit:            {Label: "Period C", Tokens: []string{"period", " c"}},
	}
}
