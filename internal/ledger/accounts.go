package ledger

// Standard chart-of-accounts codes used by the mapper (plan comptable
// général). The tables below are compiled-in configuration: the mapper and
// the regulatory serializer must agree on them, so they live here and are
// never mutated.
const (
	AccountClients      = "411000"
	AccountRevenue      = "706000"
	AccountVATCollected = "445710"
	AccountSuppliers    = "401000"
	AccountExpenseMisc  = "606000"
	AccountBank         = "512000"
)

// Journal codes classify an entry's origin book.
const (
	JournalSales     = "VE"
	JournalPurchases = "AC"
	JournalBank      = "BQ"
)

var journalLabels = map[string]string{
	JournalSales:     "Journal des Ventes",
	JournalPurchases: "Journal des Achats",
	JournalBank:      "Journal de Banque",
}

var accountLabels = map[string]string{
	AccountClients:      "Clients",
	AccountRevenue:      "Prestations de services",
	AccountVATCollected: "TVA collectée",
	AccountSuppliers:    "Fournisseurs",
	AccountExpenseMisc:  "Achats non stockés",
	AccountBank:         "Banque",
	"601000":            "Achats matières premières",
	"602000":            "Achats fournitures",
	"613000":            "Locations",
	"625000":            "Déplacements",
}

// expenseAccounts maps an expense category to its purchase account. Unknown
// categories fall back to the generic 606000 account.
var expenseAccounts = map[string]string{
	"materiel":    "601000",
	"fournitures": "602000",
	"location":    "613000",
	"deplacement": "625000",
}

// JournalLabel returns the fixed label for a journal code, or the code itself
// when it is not one of ours.
func JournalLabel(code string) string {
	if label, ok := journalLabels[code]; ok {
		return label
	}
	return code
}

// AccountLabel returns the fixed label for an account code, or the code
// itself when it is not in the chart.
func AccountLabel(code string) string {
	if label, ok := accountLabels[code]; ok {
		return label
	}
	return code
}

// ExpenseAccount resolves an expense category to its account code.
func ExpenseAccount(category string) string {
	if code, ok := expenseAccounts[category]; ok {
		return code
	}
	return AccountExpenseMisc
}
