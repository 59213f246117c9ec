package check

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/leapstack-labs/tbcheck/pkg/table"
)

// Honorific prefixes and the sex they imply.
var (
	femalePrefixes = []string{"Ma", "Daw"}
	malePrefixes   = []string{"Mg", "U", "Ko"}

	femaleValues = []string{"female", "f"}
	maleValues   = []string{"male", "m"}
)

// NamePrefix flags records whose name starts with an honorific implying one
// sex while the sex column says otherwise. Prefixes match exactly; the sex
// column matches case-insensitively. Names without a known prefix, and empty
// names, are never flagged.
func NamePrefix(t *table.Table, nameCol, sexCol string) (ViolationSet, error) {
	if err := RequireColumns(t, nameCol, sexCol); err != nil {
		return nil, err
	}
	fold := cases.Fold()
	out := newCollector()
	for i, rec := range t.Records {
		name, _ := table.Text(rec[nameCol])
		tokens := strings.Fields(name)
		if len(tokens) == 0 {
			continue
		}
		prefix := tokens[0]

		sex, _ := table.Text(rec[sexCol])
		sex = fold.String(strings.TrimSpace(sex))

		switch {
		case contains(femalePrefixes, prefix) && !contains(femaleValues, sex):
			out.add(i)
		case contains(malePrefixes, prefix) && !contains(maleValues, sex):
			out.add(i)
		}
	}
	return out.set, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
