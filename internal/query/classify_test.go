package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Run("10 digits is a tax ID", func(t *testing.T) {
		q := Classify("5252525252")
		assert.Equal(t, TypeTaxID, q.Type)
		assert.Equal(t, "5252525252", q.Clean)
	})

	t.Run("separators are stripped before classification", func(t *testing.T) {
		q := Classify("525-252-52-52")
		assert.Equal(t, TypeTaxID, q.Type)
		assert.Equal(t, "5252525252", q.Clean)

		q = Classify("525 252 52 52")
		assert.Equal(t, TypeTaxID, q.Type)
		assert.Equal(t, "5252525252", q.Clean)
	})

	t.Run("9 digits is a phone", func(t *testing.T) {
		q := Classify("500600700")
		assert.Equal(t, TypePhone, q.Type)
		assert.Equal(t, "500600700", q.Clean)
	})

	t.Run("country code prefix is a phone", func(t *testing.T) {
		q := Classify("+48500600700")
		assert.Equal(t, TypePhone, q.Type)
		assert.Equal(t, "48500600700", q.Clean)

		q = Classify("48 500 600 700")
		assert.Equal(t, TypePhone, q.Type)
	})

	t.Run("tax ID wins the fixed check order", func(t *testing.T) {
		// A 10-digit string could be a phone missing its country code, but
		// it must classify as a tax ID; the precedence is load-bearing.
		q := Classify("5006007001")
		assert.Equal(t, TypeTaxID, q.Type)
	})

	t.Run("26 digits is a bank account", func(t *testing.T) {
		q := Classify("PL 61 1090 1014 0000 0712 1981 2874")
		// The PL prefix keeps letters in the clean string, so this is not
		// a bare account number.
		assert.Equal(t, TypeNone, q.Type)

		q = Classify("61 1090 1014 0000 0712 1981 2874")
		assert.Equal(t, TypeBankAccount, q.Type)
		assert.Equal(t, "61109010140000071219812874", q.Clean)
	})

	t.Run("everything else classifies to nothing", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "Jan Kowalski", "12345", "50060070", "5252525252525", "email@example.com"} {
			q := Classify(raw)
			assert.Equal(t, TypeNone, q.Type, "input %q", raw)
		}
	})
}

func TestTargetKind(t *testing.T) {
	assert.Equal(t, TargetCompany, TypeTaxID.TargetKind())
	assert.Equal(t, TargetPerson, TypePhone.TargetKind())
	assert.Equal(t, TargetPerson, TypeBankAccount.TargetKind())
	assert.Equal(t, TargetPerson, TypeNone.TargetKind())
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+48500600700", NormalizePhone("48500600700"))
	assert.Equal(t, "+48500600700", NormalizePhone("+48500600700"))
	assert.Equal(t, "+48500600700", NormalizePhone("  48500600700  "))
	assert.Equal(t, "", NormalizePhone("   "))
}
