package job

import "fmt"

// Input names one of the four required source tables.
type Input string

const (
	InputSalesDebit    Input = "Sales-Debit"
	InputSalesReturn   Input = "Sales-Return"
	InputTrialBalance  Input = "Trial-Balance"
	InputGeneralLedger Input = "General-Ledger"

	// InputSalesRegister is the stacked Sales-Debit + Sales-Return table.
	// Column errors on sales fields are reported against it.
	InputSalesRegister Input = "Sales register"
)

// AllInputs lists the required inputs in reporting order.
func AllInputs() []Input {
	return []Input{InputSalesDebit, InputSalesReturn, InputTrialBalance, InputGeneralLedger}
}

// MissingInputError reports a required source table that was not supplied.
type MissingInputError struct {
	Input Input
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required input: %s", e.Input)
}

// ColumnError ties a column resolution failure to the input it happened on.
type ColumnError struct {
	Input Input
	Err   error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s: %v", e.Input, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }
