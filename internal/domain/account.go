package domain

// AccountClass is the closed enumeration of ledger account
// classifications. Each class carries the category string the LEDGER
// connection must accept before an account of that class can be created.
type AccountClass int

const (
	ClassIncome AccountClass = iota
	ClassLiability
	ClassAsset
)

// Category returns the LEDGER category string for the class.
func (c AccountClass) Category() string {
	switch c {
	case ClassIncome:
		return "Income"
	case ClassLiability:
		return "Liability"
	case ClassAsset:
		return "Asset"
	}
	return "Unknown"
}

func (c AccountClass) String() string {
	return c.Category()
}

// LogicalAccount is a named ledger account role required by the
// reconciliation. Exactly one ledger account exists per name per company.
type LogicalAccount string

const (
	AccountServiceSales          LogicalAccount = "Service Sales"
	AccountProductSales          LogicalAccount = "Product Sales"
	AccountMembershipRevenue     LogicalAccount = "Membership Revenue"
	AccountPackageLiability      LogicalAccount = "Package Liability"
	AccountGiftCardLiability     LogicalAccount = "Gift Card Liability"
	AccountMembershipRedemptions LogicalAccount = "Membership Redemptions"
	AccountUndepositedCash       LogicalAccount = "Undeposited Cash"
	AccountUndepositedCard       LogicalAccount = "Undeposited Card Payments"
	AccountDueAmount             LogicalAccount = "Due Amount"
)

// Class returns the classification of the logical account.
func (a LogicalAccount) Class() AccountClass {
	switch a {
	case AccountServiceSales, AccountProductSales, AccountMembershipRevenue:
		return ClassIncome
	case AccountPackageLiability, AccountGiftCardLiability, AccountMembershipRedemptions:
		return ClassLiability
	default:
		return ClassAsset
	}
}

// RequiredAccounts returns every logical account a sync needs, in a stable
// order so account creation is deterministic.
func RequiredAccounts() []LogicalAccount {
	return []LogicalAccount{
		AccountServiceSales,
		AccountProductSales,
		AccountMembershipRevenue,
		AccountPackageLiability,
		AccountGiftCardLiability,
		AccountMembershipRedemptions,
		AccountUndepositedCash,
		AccountUndepositedCard,
		AccountDueAmount,
	}
}

// SalesAccount returns the logical account a sale of this category credits.
func (c ItemCategory) SalesAccount() LogicalAccount {
	switch c {
	case CategoryProduct:
		return AccountProductSales
	case CategoryMembership:
		return AccountMembershipRevenue
	case CategoryPackage:
		return AccountPackageLiability
	case CategoryGiftCard:
		return AccountGiftCardLiability
	default:
		return AccountServiceSales
	}
}

// UndepositedAccount returns the undeposited-funds account matching a
// payment method.
func (m PaymentMethod) UndepositedAccount() LogicalAccount {
	if m == PaymentCard {
		return AccountUndepositedCard
	}
	return AccountUndepositedCash
}

// ResolutionState records how a logical account was mapped to a ledger
// account identifier.
type ResolutionState int

const (
	// StateExisting means the account was found in the ledger's existing list.
	StateExisting ResolutionState = iota
	// StateCreated means the account was created during this sync.
	StateCreated
	// StateUnresolved means the account could not be resolved; journal lines
	// referencing it must be suppressed.
	StateUnresolved
)

// ResolvedAccount is one entry of an AccountMapping.
type ResolvedAccount struct {
	ID    string
	State ResolutionState
}

// AccountMapping maps logical account names to ledger account identifiers.
// It is built once per sync invocation and reused for every day in the
// range; nothing is cached across invocations.
type AccountMapping map[LogicalAccount]ResolvedAccount

// IDFor returns the ledger identifier for a logical account, or false when
// the account is absent or unresolved.
func (m AccountMapping) IDFor(a LogicalAccount) (string, bool) {
	resolved, ok := m[a]
	if !ok || resolved.State == StateUnresolved || resolved.ID == "" {
		return "", false
	}
	return resolved.ID, true
}

// Company is a LEDGER company record.
type Company struct {
	ID   string
	Name string
}

// Connection is a LEDGER connection to an underlying accounting platform.
type Connection struct {
	ID          string
	PlatformKey string
	LinkURL     string
	Status      string
}

// LedgerAccount is an existing chart-of-accounts entry on the LEDGER side.
type LedgerAccount struct {
	ID                 string
	Name               string
	FullyQualifiedName string
	Category           string
	Status             string
}
