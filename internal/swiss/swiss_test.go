package swiss

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{
		"079 123 45 67",
		"0791234567",
		"+41 79 123 45 67",
		"+41791234567",
		"0041 79 123 45 67",
		"076-555-12-34",
		"044 668 18 00",
		"+41 21 345 67 89",
		"071 345 67 89",
		"+41 71 222 33 44",
	}
	for _, phone := range valid {
		require.True(t, ValidatePhone(phone), "phone %q must be recognized", phone)
	}

	invalid := []string{
		"",
		"12345",
		"079 123 45",
		"+49 30 123 456 78",
		"0012345678",
		"+41 79 123 45 67 8",
		"075 123 45 67",
		"072 123 45 67",
		"074 123 45 67",
	}
	for _, phone := range invalid {
		require.False(t, ValidatePhone(phone), "phone %q must be rejected", phone)
	}
}

func TestFormatPhone(t *testing.T) {
	t.Log("recognized numbers are normalized")
	{
		require.Equal(t, "+41 79 123 45 67", FormatPhone("0791234567"))
		require.Equal(t, "+41 79 123 45 67", FormatPhone("0041791234567"))
		require.Equal(t, "+41 44 668 18 00", FormatPhone("044/668 18 00"))
		require.Equal(t, "+41 71 345 67 89", FormatPhone("071 345 67 89"))
	}

	t.Log("unrecognized input is returned unchanged")
	{
		require.Equal(t, "not a phone", FormatPhone("not a phone"))
		require.Equal(t, "+49 30 1234", FormatPhone("+49 30 1234"))
	}

	t.Log("formatting is idempotent")
	{
		inputs := []string{"0791234567", "+41 21 345 67 89", "0041 76 555 12 34", "garbage", ""}
		for _, in := range inputs {
			once := FormatPhone(in)
			require.Equal(t, once, FormatPhone(once), "format of %q is not idempotent", in)
		}
	}
}

func TestValidatePostalCode(t *testing.T) {
	require.True(t, ValidatePostalCode("8001"))
	require.True(t, ValidatePostalCode("1000"))
	require.True(t, ValidatePostalCode("9999"))
	require.False(t, ValidatePostalCode("800"))
	require.False(t, ValidatePostalCode("0800"))
	require.False(t, ValidatePostalCode("80011"))
	require.False(t, ValidatePostalCode("80a1"))
	require.False(t, ValidatePostalCode(""))
}

func TestCanton(t *testing.T) {
	require.Len(t, Cantons, 26)
	require.True(t, ValidateCanton("ZH"))
	require.True(t, ValidateCanton("AI"))
	require.False(t, ValidateCanton("zh"))
	require.False(t, ValidateCanton("XX"))

	canton, ok := CantonFromPostalCode("8001")
	require.True(t, ok)
	require.Equal(t, "ZH", canton)

	canton, ok = CantonFromPostalCode("1204")
	require.True(t, ok)
	require.Equal(t, "GE", canton)

	canton, ok = CantonFromPostalCode("1950")
	require.True(t, ok)
	require.Equal(t, "VS", canton)

	canton, ok = CantonFromPostalCode("3920")
	require.True(t, ok)
	require.Equal(t, "BE", canton, "overlapping ranges resolve to the first one")

	_, ok = CantonFromPostalCode("4000")
	require.False(t, ok)

	_, ok = CantonFromPostalCode("0800")
	require.False(t, ok)
}

func TestValidateIDDocument(t *testing.T) {
	require.True(t, ValidateIDDocument(DocumentPassport, "X1234567"))
	require.False(t, ValidateIDDocument(DocumentPassport, "12345678"))
	require.True(t, ValidateIDDocument(DocumentIDCard, "12345678"))
	require.False(t, ValidateIDDocument(DocumentIDCard, "1234567"))
	require.True(t, ValidateIDDocument(DocumentResidencePermitB, "B12345678"))
	require.True(t, ValidateIDDocument(DocumentResidencePermitC, "C12345678"))
	require.True(t, ValidateIDDocument(DocumentResidencePermitL, "L12345678"))
	require.True(t, ValidateIDDocument(DocumentResidencePermitF, "F12345678"))
	require.False(t, ValidateIDDocument(DocumentResidencePermitB, "C12345678"))
	require.False(t, ValidateIDDocument(DocumentType("driver_license"), "X1234567"))
	require.False(t, KnownDocumentType(DocumentType("driver_license")))
	require.True(t, KnownDocumentType(DocumentIDCard))
}

func TestMaskSensitiveData(t *testing.T) {
	require.Equal(t, "jo***@example.com", MaskSensitiveData("john.doe@example.com", MaskEmail))
	require.Equal(t, "+41****67", MaskSensitiveData("+41 79 123 45 67", MaskPhone))
	require.Equal(t, "X1****67", MaskSensitiveData("X1234567", MaskID))
	require.Equal(t, "***MASKED***", MaskSensitiveData("secret", MaskKind("other")))

	t.Log("too short values are left as is")
	{
		require.Equal(t, "ab", MaskSensitiveData("ab", MaskID))
	}
}
