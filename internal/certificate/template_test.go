package certificate

import (
	"strings"
	"testing"

	"github.com/dsdaea/aerovault-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(place string) *model.CertificateRecord {
	return &model.CertificateRecord{
		RollNo: "22Z301",
		Name:   "Asha Balan",
		Year:   "4th Year",
		Dept:   "Computer Science & Engineering",
		Place:  place,
	}
}

func TestNewDocumentParticipationWhenPlaceEmpty(t *testing.T) {
	doc, err := NewDocument(record(""), "AEROQUEST 2026")
	require.NoError(t, err)

	assert.Equal(t, KindParticipation, doc.Kind)
	assert.Equal(t, "OF PARTICIPATION", doc.Subtitle)
	assert.Equal(t, "actively participated in", doc.ActionLine())

	// An absent achievement must never leak placeholder text into output.
	for _, s := range []string{doc.Subtitle, doc.Achievement, doc.ActionLine()} {
		assert.NotContains(t, s, "undefined")
		assert.NotContains(t, s, "<nil>")
	}
}

func TestNewDocumentParticipationWhenPlaceSaysParticipated(t *testing.T) {
	doc, err := NewDocument(record("Participated"), "AEROQUEST 2026")
	require.NoError(t, err)

	assert.Equal(t, KindParticipation, doc.Kind)
	assert.Empty(t, doc.Achievement)
}

func TestNewDocumentMeritStripsWinnerPrefix(t *testing.T) {
	doc, err := NewDocument(record("Winner - 1st Prize"), "AEROQUEST 2026")
	require.NoError(t, err)

	assert.Equal(t, KindMerit, doc.Kind)
	assert.Equal(t, "OF MERIT", doc.Subtitle)
	assert.Equal(t, "1st Prize", doc.Achievement)
	assert.Contains(t, doc.ActionLine(), "1st Prize")
	assert.NotContains(t, doc.ActionLine(), "Winner - ")
}

func TestNewDocumentMeritStripsAchievedPrefix(t *testing.T) {
	doc, err := NewDocument(record("achieved 2nd Place"), "AEROQUEST 2026")
	require.NoError(t, err)

	// Prefix stripping is case-insensitive.
	assert.Equal(t, "2nd Place", doc.Achievement)
}

func TestNewDocumentRequiresRecord(t *testing.T) {
	_, err := NewDocument(nil, "AEROQUEST 2026")
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestNewDocumentStartsAtPreviewGeometry(t *testing.T) {
	doc, err := NewDocument(record(""), "AEROQUEST 2026")
	require.NoError(t, err)

	assert.NotEqual(t, PageGeometry(), doc.Geometry)
	assert.False(t, doc.Geometry.Visible)
}

func TestFilename(t *testing.T) {
	rec := &model.CertificateRecord{RollNo: "25X100", Name: "A B"}
	assert.Equal(t, "Certificate_25X100_A_B.jpg", Filename(rec, FormatJPEG))
	assert.Equal(t, "Certificate_25X100_A_B.pdf", Filename(rec, FormatPDF))
}

func TestFilenameStripsSpecialCharacters(t *testing.T) {
	rec := &model.CertificateRecord{RollNo: "22Z301", Name: "  R. Aadhira-Shree  "}
	got := Filename(rec, FormatJPEG)

	assert.Equal(t, "Certificate_22Z301_R_AadhiraShree.jpg", got)
	assert.False(t, strings.ContainsAny(strings.TrimSuffix(got, ".jpg"), " .-"))
}

func TestFilenameFallsBackWhenIncomplete(t *testing.T) {
	assert.Equal(t, "Certificate.jpg", Filename(nil, FormatJPEG))
	assert.Equal(t, "Certificate.pdf", Filename(&model.CertificateRecord{Name: "X"}, FormatPDF))
	assert.Equal(t, "Certificate.jpg", Filename(&model.CertificateRecord{RollNo: "22Z301", Name: "   "}, FormatJPEG))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"jpeg": FormatJPEG,
		"JPEG": FormatJPEG,
		"":     FormatJPEG,
		"pdf":  FormatPDF,
		" PDF": FormatPDF,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("png")
	assert.Error(t, err)
}
