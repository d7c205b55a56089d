package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/IshaanNene/bizgoat/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func ptr[T any](v T) *T { return &v }

func sampleBusiness(id string) *types.Business {
	b := types.NewBusiness("https://www.bia.ge/EN/Company/" + id)
	b.ID = ptr(id)
	b.Name = ptr("Company " + id)
	b.EmployeeCount = ptr(12)
	b.IsVATPayer = ptr(true)
	b.PhoneNumbers = []string{"+995 32 200 00 00", "599 12 34 56"}
	b.ContactPersons = []types.ContactPerson{
		{Name: ptr("Nino Beridze"), Position: ptr("გენერალური დირექტორი"), Phone: ptr("599 00 00 01")},
		{Name: ptr("Giorgi Kapanadze"), Position: ptr("მენეჯერი")},
	}
	return b
}

func readSheet(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	return rows
}

func indexOf(row []string, header string) int {
	for i, h := range row {
		if h == header {
			return i
		}
	}
	return -1
}

func TestExcelSinkInitializeWritesHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "businesses.xlsx")
	sink := NewExcelSink(testLogger)
	if err := sink.Initialize(path); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer sink.Close()

	rows := readSheet(t, path)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 header rows", len(rows))
	}
	if rows[0][0] != "Company_ID" || rows[1][0] != "კომპანიის ID" {
		t.Errorf("unexpected first header cells %q / %q", rows[0][0], rows[1][0])
	}
	if got := rows[0][len(rows[0])-1]; got != "Profile_URL" {
		t.Errorf("last header = %q, want Profile_URL", got)
	}
	if indexOf(rows[0], "Banks") != -1 {
		t.Error("optional column present without records")
	}
}

func TestExcelSinkAppendRequiresInitialize(t *testing.T) {
	sink := NewExcelSink(testLogger)
	if err := sink.Append(context.Background(), sampleBusiness("1")); err == nil {
		t.Fatal("expected error before Initialize")
	}
}

func TestExcelSinkAppendFormatsCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "businesses.xlsx")
	sink := NewExcelSink(testLogger)
	if err := sink.Initialize(path); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer sink.Close()

	if err := sink.Append(context.Background(), sampleBusiness("101")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	rows := readSheet(t, path)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	header, row := rows[0], rows[2]
	cell := func(name string) string {
		i := indexOf(header, name)
		if i < 0 {
			t.Fatalf("column %s missing", name)
		}
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	tests := map[string]string{
		"Company_ID":     "101",
		"Name":           "Company 101",
		"Employee_Count": "12",
		"VAT_Payer":      "Yes",
		"Phones":         "+995 32 200 00 00, 599 12 34 56",
		"Director":       "Nino Beridze | Tel: 599 00 00 01",
		"Manager":        "Giorgi Kapanadze",
		"Website":        "",
		"Profile_URL":    "https://www.bia.ge/EN/Company/101",
	}
	for col, want := range tests {
		t.Run(col, func(t *testing.T) {
			if got := cell(col); got != want {
				t.Errorf("%s = %q, want %q", col, got, want)
			}
		})
	}
	if sink.Count() != 1 {
		t.Errorf("Count = %d, want 1", sink.Count())
	}
}

func TestExcelSinkOptionalColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "businesses.xlsx")
	sink := NewExcelSink(testLogger)
	if err := sink.Initialize(path); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer sink.Close()
	ctx := context.Background()

	negative := sampleBusiness("1")
	negative.Banks = ptr("არ სარგებლობს")
	if err := sink.Append(ctx, negative); err != nil {
		t.Fatal(err)
	}
	if indexOf(readSheet(t, path)[0], "Banks") != -1 {
		t.Fatal("Banks column added for a negative-only value")
	}

	positive := sampleBusiness("2")
	positive.Banks = ptr("TBC Bank")
	if err := sink.Append(ctx, positive); err != nil {
		t.Fatal(err)
	}

	rows := readSheet(t, path)
	col := indexOf(rows[0], "Banks")
	if col == -1 {
		t.Fatal("Banks column missing after a meaningful value")
	}
	if rows[1][col] != "ბანკები" {
		t.Errorf("Georgian header = %q", rows[1][col])
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows after rebuild, want 4", len(rows))
	}
	if rows[2][col] != "არ სარგებლობს" || rows[3][col] != "TBC Bank" {
		t.Errorf("Banks cells = %q, %q", rows[2][col], rows[3][col])
	}
	if got := rows[3][len(rows[0])-1]; got != positive.ProfileURL {
		t.Errorf("Profile_URL stays last, got %q", got)
	}
}

func TestExcelSinkSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "businesses.xlsx")
	sink := NewExcelSink(testLogger)
	if err := sink.Initialize(path); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer sink.Close()

	if err := sink.Seed([]*types.Business{sampleBusiness("1"), sampleBusiness("2")}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := sink.Append(context.Background(), sampleBusiness("3")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	rows := readSheet(t, path)
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	var ids []string
	for _, r := range rows[2:] {
		ids = append(ids, r[0])
	}
	if diff := cmp.Diff([]string{"1", "2", "3"}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestMeaningful(t *testing.T) {
	tests := []struct {
		in   *string
		want bool
	}{
		{nil, false},
		{ptr(""), false},
		{ptr("   "), false},
		{ptr("არ ჰყავს"), false},
		{ptr("  არ   აქვს "), false},
		{ptr("Bank of Georgia"), true},
	}
	for _, tt := range tests {
		if got := meaningful(tt.in); got != tt.want {
			t.Errorf("meaningful(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestJSONLSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "businesses.jsonl")
	ctx := context.Background()

	sink, err := NewJSONLSink(path, false, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	if err := sink.Append(ctx, sampleBusiness("1")); err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	sink, err = NewJSONLSink(path, true, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	if err := sink.Append(ctx, sampleBusiness("2")); err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var rec types.Business
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		ids = append(ids, *rec.ID)
	}
	if diff := cmp.Diff([]string{"1", "2"}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

type stubSink struct {
	name    string
	err     error
	appends int
	closed  bool
}

func (s *stubSink) Append(context.Context, *types.Business) error {
	s.appends++
	return s.err
}
func (s *stubSink) Close() error { s.closed = true; return s.err }
func (s *stubSink) Name() string { return s.name }

func TestMultiSinkContinuesPastFailure(t *testing.T) {
	boom := errors.New("boom")
	bad := &stubSink{name: "bad", err: boom}
	good := &stubSink{name: "good"}
	multi := NewMultiSink([]Sink{bad, good}, testLogger)

	err := multi.Append(context.Background(), sampleBusiness("1"))
	if !errors.Is(err, boom) {
		t.Fatalf("Append err = %v, want wrapped boom", err)
	}
	var serr *types.StorageError
	if !errors.As(err, &serr) || serr.Backend != "bad" {
		t.Errorf("expected StorageError from bad sink, got %v", err)
	}
	if good.appends != 1 {
		t.Errorf("good sink appends = %d, want 1", good.appends)
	}

	if err := multi.Close(); !errors.Is(err, boom) {
		t.Errorf("Close err = %v", err)
	}
	if !bad.closed || !good.closed {
		t.Error("every sink must be closed")
	}
}

func TestNewMongoSinkRejectsBadURI(t *testing.T) {
	if _, err := NewMongoSink("not-a-mongo-uri", "db", "c", testLogger); err == nil {
		t.Fatal("expected error for invalid URI")
	}
}

func TestPageArchiveRoundTrip(t *testing.T) {
	archive, err := NewPageArchive(filepath.Join(t.TempDir(), "pages"), testLogger)
	if err != nil {
		t.Fatal(err)
	}
	captured := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	page := ArchivedPage{
		Key:        "12345",
		URL:        "https://www.bia.ge/EN/Company/12345",
		HTML:       "<html><body><h1>შპს მაგალითი</h1>\n<p>line two</p></body></html>",
		CapturedAt: captured,
	}
	n, err := archive.Write(page)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n <= 0 {
		t.Errorf("compressed size = %d", n)
	}

	got, err := archive.Read("12345")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := cmp.Diff(page, got); diff != "" {
		t.Errorf("page mismatch (-want +got):\n%s", diff)
	}

	if _, err := archive.Write(ArchivedPage{Key: "13", HTML: "x", CapturedAt: captured}); err != nil {
		t.Fatal(err)
	}
	keys, err := archive.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"12345", "13"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestPageArchiveRejectsBadKey(t *testing.T) {
	archive, err := NewPageArchive(t.TempDir(), testLogger)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", "../x", `a\b`} {
		if _, err := archive.Write(ArchivedPage{Key: key}); err == nil {
			t.Errorf("Write(%q) succeeded, want error", key)
		}
	}
}
