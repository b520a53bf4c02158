package mapping

// boolPtr is a convenience for the tri-state has_header field in built-in
// specs.
func boolPtr(b bool) *bool { return &b }

// builtinSpecs contains the mapping definitions shipped with the binary.
// Custom YAML mappings loaded from the mappings directory may shadow these
// by name.
var builtinSpecs = []Spec{
	{
		Name:        "default",
		Description: "Generic single-account export: Date, Amount, Description, Notes, Num columns",
		HasHeader:   boolPtr(true),
		Currency:    "USD",
		Delimiter:   ",",
		Account:     AccountSpec{Static: "Checking"},
		Fields: FieldSpecs{
			Date:     &FieldSpec{Column: "Date", Format: "01/02/2006"},
			Amount:   &FieldSpec{Column: "Amount"},
			Payee:    &FieldSpec{Column: "Description"},
			Notes:    &FieldSpec{Column: "Notes"},
			CheckNum: &FieldSpec{Column: "Num"},
		},
	},
	{
		Name:         "asl",
		Description:  "Banque ASL checking account export (semicolon-delimited, Débit/Crédit columns)",
		FilePatterns: []string{"asl_*.csv", "asl-*.csv"},
		HasHeader:    boolPtr(true),
		Currency:     "EUR",
		Delimiter:    ";",
		Account:      AccountSpec{Static: "Actif:Actifs actuels:Compte chèque"},
		// GnuCash needs US date format for QIF.
		DateFmt: "01/02/06",
		Fields: FieldSpecs{
			Date:   &FieldSpec{Column: "Date", Format: "02/01/06"},
			Amount: &FieldSpec{DebitColumn: "Débit", CreditColumn: "Crédit"},
			Payee:  &FieldSpec{Column: "Libellé"},
		},
	},
	{
		Name:         "mint",
		Description:  "Mint.com transaction export, account taken from the Account Name column",
		FilePatterns: []string{"mint_*.csv", "transactions*.csv"},
		HasHeader:    boolPtr(true),
		Currency:     "USD",
		Delimiter:    ",",
		Account:      AccountSpec{Spec: &FieldSpec{Column: "Account Name"}},
		Sort:         "date",
		Fields: FieldSpecs{
			Date:     &FieldSpec{Column: "Date", Format: "1/02/2006"},
			Amount:   &FieldSpec{Column: "Amount"},
			Payee:    &FieldSpec{Column: "Description"},
			Notes:    &FieldSpec{Column: "Notes"},
			Category: &FieldSpec{Column: "Category"},
		},
	},
	{
		Name:         "gnucash",
		Description:  "GnuCash CSV export with one row per ledger leg (split transactions)",
		FilePatterns: []string{"gnucash_*.csv"},
		HasHeader:    boolPtr(true),
		IsSplit:      true,
		Currency:     "USD",
		Delimiter:    ",",
		Account:      AccountSpec{Spec: &FieldSpec{Column: "Full Account Name"}},
		Fields: FieldSpecs{
			Date:   &FieldSpec{Column: "Date", Format: "2006-01-02"},
			Amount: &FieldSpec{Column: "Amount Num."},
			Payee:  &FieldSpec{Column: "Description"},
			Notes:  &FieldSpec{Column: "Memo"},
		},
		Split: SplitSpec{GroupBy: GroupByDatePayee},
	},
}
