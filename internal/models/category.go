package models

// Category names for transactions, goals and spending limits.
var (
	ExpenseCategories = []string{
		"Food & Dining",
		"Shopping",
		"Transportation",
		"Entertainment",
		"Bills & Utilities",
		"Health & Medical",
		"Education",
		"Travel",
		"Personal Care",
		"Gifts & Donations",
		"Housing",
		"Investments",
		"Other",
	}

	IncomeCategories = []string{
		"Salary",
		"Freelance",
		"Business",
		"Investments",
		"Gifts",
		"Refunds",
		"Other",
	}

	GoalCategories = []string{
		"Savings",
		"Emergency Fund",
		"Vacation",
		"Education",
		"Electronics",
		"Vehicle",
		"Home",
		"Debt Repayment",
		"Retirement",
		"Other",
	}
)

// DefaultCategory is used for payments submitted without a category.
const DefaultCategory = "Other"

// IsExpenseCategory reports whether name is a known expense category.
func IsExpenseCategory(name string) bool { return contains(ExpenseCategories, name) }

// IsIncomeCategory reports whether name is a known income category.
func IsIncomeCategory(name string) bool { return contains(IncomeCategories, name) }

// IsGoalCategory reports whether name is a known goal category.
func IsGoalCategory(name string) bool { return contains(GoalCategories, name) }

// AllCategories returns every category name once, in declaration order.
func AllCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, group := range [][]string{ExpenseCategories, IncomeCategories, GoalCategories} {
		for _, c := range group {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

func contains(list []string, name string) bool {
	for _, c := range list {
		if c == name {
			return true
		}
	}
	return false
}
