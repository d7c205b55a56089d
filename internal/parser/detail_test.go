package parser

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/IshaanNene/bizgoat/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const profileHTML = `<!DOCTYPE html>
<html><head><title>Company</title><script>var x = "ignored";</script></head>
<body>
<div id="PageContent">
  <div class="logo">არ არის ლოგო</div>
  <h1>შპს ტესტ კომპანი</h1>
  <h2>Test Company LLC</h2>
  <div class="phones">+ 995</div>
  <a href="https://www.facebook.com/testcompany">Facebook</a>
</div>
<div id="TabPanelBox">
  <div class="data-title">საიდენტიფიკაციო კოდი:</div>
  <div class="data-list">404123456</div>
  <div class="data-title">სამართლებრივი ფორმა:</div>
  <span class="note">ignored sibling</span>
  <div class="data-list">შეზღუდული პასუხისმგებლობის საზოგადოება</div>
  <div class="data-title">იურიდიული მისამართი:</div>
  <div class="data-list">საქართველო, ქუთაისი, ცენტრალური რაიონი, რუსთაველის 1</div>
  <div class="data-title">სავაჭრო მარკები:</div>
  <ul class="data-list"><li>Alpha</li><li>Beta</li></ul>
  <div class="data-title">სავაჭრო მარკები:</div>
  <ul class="data-list"><li>Gamma</li><li>Alpha</li></ul>
  <div class="data-title">საქმიანობის კატეგორიები:</div>
  <div class="data-list">რესტორნები | ბარები</div>
  <div class="data-title">თანამშრომელთა რ-ბა:</div>
  <div class="data-list">120 თანამშრომელი</div>
  <div class="data-title">თანამშრომლების საშუალო ასაკი:</div>
  <div class="data-list">34</div>
  <div class="data-title">კორპორატიული ავტომობილები:</div>
  <div class="data-list">არ აქვს</div>
  <div class="data-title">დამფუძნებლები:</div>
  <div class="data-list">გიორგი || ნინო</div>
  <div class="data-title">ბანკები:</div>
  <div class="data-list">თიბისი ბანკი</div>
  <div class="data-title">ცარიელი:</div>
  <div class="data-title">სტატუსი:</div>
  <div class="data-list">აქტიური</div>
  <p>დღგ-ს გადამხდელი: არის</p>
  <p>ბოლო განახლების თარიღი: 01/02/2024</p>
  <p>თანამშრომლების საშუალო ასაკი: 50</p>
  <p>გენდერული განაწილება (კაცი): 70%</p>
  <p>დამატებითი ტელეფონი: +995 599 11 22 33, +995 32 2 123456</p>
  <p>ელფოსტა: sales@test.ge</p>
  <div id="tpManagement">
    <div class="employees-box">
      <ul class="data-list with-bullets">
        <li>
          <div class="sub-data-title"><span class="title">დირექტორი:</span><span class="text">გიორგი გიორგაძე</span><span class="text">პირადი ნომერი: 01001012345</span></div>
          <div class="sub-data-list">director@test.ge +995 555 12 34 56</div>
        </li>
        <li>
          <div class="sub-data-title"><span class="title">მენეჯერი:</span><span class="text">ნინო ნინიძე</span></div>
          <div class="sub-data-list">manager@test.ge</div>
        </li>
      </ul>
    </div>
  </div>
</div>
<div id="ContactsBox">
  <table class="body">
    <tr><td class="data-icon"><img data-title="მისამართი"></td><td class="data-list">საქართველო, თბილისი, ვაკის რაიონი, ჭავჭავაძის 10</td></tr>
    <tr><td class="data-icon"><img data-title="ტელეფონი"></td><td class="data-list"><a href="tel:+995322123456">+995 32 2 123456</a></td></tr>
    <tr><td class="data-icon"><img data-title="იმეილი"></td><td class="data-list"><a href="mailto:info@test.ge">info@test.ge</a></td></tr>
    <tr><td class="data-icon"><img data-title="ვებ-საიტი"></td><td class="data-list"><a href="/go/test">www.test.ge</a></td></tr>
  </table>
</div>
</body></html>`

func TestParseProfile(t *testing.T) {
	p := NewDetailParser(testLogger)
	rec := p.Parse(profileHTML, "https://www.bia.ge/EN/Company/12345?tab=1")

	checkString := func(field string, got *string, want string) {
		t.Helper()
		if got == nil {
			t.Errorf("%s: expected %q, got nil", field, want)
			return
		}
		if *got != want {
			t.Errorf("%s: expected %q, got %q", field, want, *got)
		}
	}

	checkString("id", rec.ID, "12345")
	checkString("nameGeorgian", rec.NameGeorgian, "შპს ტესტ კომპანი")
	checkString("nameLatin", rec.NameLatin, "Test Company LLC")
	checkString("name", rec.Name, "შპს ტესტ კომპანი")
	checkString("taxPayerId", rec.TaxPayerID, "404123456")
	checkString("registrationNumber", rec.RegistrationNumber, "404123456")
	checkString("legalForm", rec.LegalForm, "შეზღუდული პასუხისმგებლობის საზოგადოება")
	checkString("status", rec.Status, "აქტიური")
	checkString("lastUpdated", rec.LastUpdated, "01/02/2024")
	checkString("address", rec.Address, "საქართველო, თბილისი, ვაკის რაიონი, ჭავჭავაძის 10")
	checkString("legalAddress", rec.LegalAddress, "საქართველო, ქუთაისი, ცენტრალური რაიონი, რუსთაველის 1")
	checkString("city", rec.City, "თბილისი")
	checkString("region", rec.Region, "ვაკის რაიონი")
	checkString("website", rec.Website, "https://www.bia.ge/go/test")
	checkString("banks", rec.Banks, "თიბისი ბანკი")

	if rec.IsVATPayer == nil || !*rec.IsVATPayer {
		t.Errorf("expected VAT payer true, got %v", rec.IsVATPayer)
	}
	if rec.EmployeeCount == nil || *rec.EmployeeCount != 120 {
		t.Errorf("expected employee count 120, got %v", rec.EmployeeCount)
	}
	// The label value wins over the free-text mention.
	if rec.AvgEmployeeAge == nil || *rec.AvgEmployeeAge != 34 {
		t.Errorf("expected average age 34, got %v", rec.AvgEmployeeAge)
	}
	if rec.CorporateVehicles == nil || *rec.CorporateVehicles != 0 {
		t.Errorf("expected corporate vehicles 0, got %v", rec.CorporateVehicles)
	}
	if rec.GenderDistribution == nil || rec.GenderDistribution.Male != 70 || rec.GenderDistribution.Female != 0 {
		t.Errorf("expected gender 70/0, got %+v", rec.GenderDistribution)
	}

	if diff := cmp.Diff([]string{"Alpha", "Beta", "Gamma"}, rec.Trademarks); diff != "" {
		t.Errorf("trademarks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"რესტორნები", "ბარები"}, rec.Subcategories); diff != "" {
		t.Errorf("subcategories mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"გიორგი", "ნინო"}, rec.Founders); diff != "" {
		t.Errorf("founders mismatch (-want +got):\n%s", diff)
	}
	wantPhones := []string{"+995 32 2 123456", "+995 599 11 22 33", "+995 555 12 34 56"}
	if diff := cmp.Diff(wantPhones, rec.PhoneNumbers); diff != "" {
		t.Errorf("phones mismatch (-want +got):\n%s", diff)
	}
	wantEmails := []string{"info@test.ge", "sales@test.ge", "director@test.ge", "manager@test.ge"}
	if diff := cmp.Diff(wantEmails, rec.Emails); diff != "" {
		t.Errorf("emails mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"https://www.facebook.com/testcompany"}, rec.SocialLinks); diff != "" {
		t.Errorf("social links mismatch (-want +got):\n%s", diff)
	}

	if len(rec.ContactPersons) != 2 {
		t.Fatalf("expected 2 contact persons, got %d", len(rec.ContactPersons))
	}
	director := rec.ContactPersons[0]
	checkString("director.position", director.Position, "დირექტორი")
	checkString("director.name", director.Name, "გიორგი გიორგაძე")
	checkString("director.personalId", director.PersonalID, "01001012345")
	checkString("director.email", director.Email, "director@test.ge")
	checkString("director.phone", director.Phone, "+995 555 12 34 56")

	manager := rec.ContactPersons[1]
	checkString("manager.email", manager.Email, "manager@test.ge")
	if manager.Phone != nil {
		t.Errorf("manager must not inherit the director's phone, got %q", *manager.Phone)
	}
	if manager.PersonalID != nil {
		t.Errorf("expected no personal id for manager, got %q", *manager.PersonalID)
	}

	if got := rec.ExtraFields[LabelTrademarks]; got != "Alpha | Beta || Gamma | Alpha" {
		t.Errorf("repeated labels should be joined, got %q", got)
	}
	if _, ok := rec.ExtraFields["ცარიელი:"]; ok {
		t.Error("a title without a value must not enter the label map")
	}
	if rec.RawPageContent == nil || rec.RawTabPanelContent == nil {
		t.Error("expected raw section texts to be captured")
	}
}

func TestParseLabelOnlyTaxID(t *testing.T) {
	page := `<div id="TabPanelBox"><div class="data-title">საიდენტიფიკაციო კოდი:</div><div class="data-list">123456789</div></div>`
	rec := NewDetailParser(testLogger).Parse(page, "https://www.bia.ge/Company/1")

	if rec.TaxPayerID == nil || *rec.TaxPayerID != "123456789" {
		t.Fatalf("expected taxPayerId 123456789, got %v", rec.TaxPayerID)
	}
	if rec.GenderDistribution != nil {
		t.Errorf("expected no gender distribution, got %+v", rec.GenderDistribution)
	}
}

func TestParseTextFallbacks(t *testing.T) {
	page := `<div id="PageContent"><h1>ACME</h1></div>
<div id="TabPanelBox">
  <p>საიდენტიფიკაციო კოდი: 205000111</p>
  <p>რეგისტრაციის ნომერი: 01/234-B</p>
  <p>დღგ-ს გადამხდელი: არ არის</p>
  <p>თანამშრომლების საშუალო ასაკი:41</p>
  <p>გენდერული განაწილება (ქალი): 55%</p>
</div>`
	rec := NewDetailParser(testLogger).Parse(page, "https://www.bia.ge/Company/77")

	if rec.TaxPayerID == nil || *rec.TaxPayerID != "205000111" {
		t.Errorf("expected taxPayerId from text, got %v", rec.TaxPayerID)
	}
	if rec.RegistrationNumber == nil || *rec.RegistrationNumber != "01/234-B" {
		t.Errorf("expected registration number from text, got %v", rec.RegistrationNumber)
	}
	if rec.IsVATPayer == nil || *rec.IsVATPayer {
		t.Errorf("expected VAT payer false, got %v", rec.IsVATPayer)
	}
	if rec.AvgEmployeeAge == nil || *rec.AvgEmployeeAge != 41 {
		t.Errorf("expected average age 41, got %v", rec.AvgEmployeeAge)
	}
	if rec.GenderDistribution == nil || rec.GenderDistribution.Male != 0 || rec.GenderDistribution.Female != 55 {
		t.Errorf("expected gender 0/55, got %+v", rec.GenderDistribution)
	}
	if rec.Name == nil || *rec.Name != "ACME" || rec.NameGeorgian != nil {
		t.Errorf("expected Latin-only name ACME, got name=%v georgian=%v", rec.Name, rec.NameGeorgian)
	}
}

func TestParseIsTotal(t *testing.T) {
	inputs := map[string]string{
		"empty":       "",
		"garbage":     "<<<>>>\x00<div",
		"unrelated":   "<html><body><p>hello</p></body></html>",
		"nested junk": "<div id=\"TabPanelBox\"><div class=\"data-title\"></div><ul class=\"data-list\"></ul></div>",
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			rec := NewDetailParser(testLogger).Parse(in, "https://www.bia.ge/search")
			if rec == nil {
				t.Fatal("Parse returned nil")
			}
			if rec.ID != nil {
				t.Errorf("expected nil id for non-profile URL, got %q", *rec.ID)
			}
			if rec.PhoneNumbers == nil || rec.Emails == nil || rec.Trademarks == nil || rec.ContactPersons == nil {
				t.Error("list fields must be empty, not nil")
			}
			if rec.GenderDistribution != nil {
				t.Errorf("expected nil gender distribution, got %+v", rec.GenderDistribution)
			}
		})
	}
}

func TestCityAndRegion(t *testing.T) {
	tests := []struct {
		name       string
		address    *string
		wantCity   *string
		wantRegion *string
	}{
		{"nil", nil, nil, nil},
		{"too short", strp("თბილისი, ვაკე"), nil, nil},
		{"full", strp("საქართველო, თბილისი, ვაკის რაიონი, ჭავჭავაძის 10"), strp("თბილისი"), strp("ვაკის რაიონი")},
		{"no region marker", strp("საქართველო, ბათუმი, გორგილაძის 5"), strp("ბათუმი"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			city, region := cityAndRegion(tt.address)
			if diff := cmp.Diff(tt.wantCity, city); diff != "" {
				t.Errorf("city mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRegion, region); diff != "" {
				t.Errorf("region mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractID(t *testing.T) {
	if got := ExtractID("https://www.bia.ge/EN/company/987"); got == nil || *got != "987" {
		t.Errorf("expected case-insensitive match 987, got %v", got)
	}
	if got := ExtractID("https://www.bia.ge/Company/Search"); got != nil {
		t.Errorf("expected nil, got %q", *got)
	}
}

type fakeSource struct {
	url      string
	html     string
	navErr   error
	htmlErr  error
	navigate []string
}

func (f *fakeSource) Navigate(_ context.Context, url string) error {
	f.navigate = append(f.navigate, url)
	return f.navErr
}

func (f *fakeSource) URL() string { return f.url }

func (f *fakeSource) HTML(context.Context) (string, error) { return f.html, f.htmlErr }

func TestScrape(t *testing.T) {
	p := NewDetailParser(testLogger)

	t.Run("uses resolved url", func(t *testing.T) {
		src := &fakeSource{url: "https://www.bia.ge/EN/Company/55", html: profileHTML}
		rec, snap, err := p.Scrape(context.Background(), src, "https://www.bia.ge/Company/55")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.ProfileURL != "https://www.bia.ge/EN/Company/55" {
			t.Errorf("expected resolved profile URL, got %q", rec.ProfileURL)
		}
		if snap == nil || snap.HTML != profileHTML {
			t.Error("expected snapshot of the parsed HTML")
		}
	})

	t.Run("navigation failure", func(t *testing.T) {
		src := &fakeSource{navErr: errors.New("net::ERR_TIMED_OUT")}
		_, _, err := p.Scrape(context.Background(), src, "https://www.bia.ge/Company/9")
		var fe *types.FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("expected FetchError, got %v", err)
		}
		if fe.URL != "https://www.bia.ge/Company/9" {
			t.Errorf("unexpected URL in error: %q", fe.URL)
		}
		if !fe.IsRetryable() {
			t.Error("a timed-out navigation should be retryable")
		}
	})

	t.Run("closed session", func(t *testing.T) {
		src := &fakeSource{navErr: types.ErrSessionClosed}
		_, _, err := p.Scrape(context.Background(), src, "https://www.bia.ge/Company/9")
		var fe *types.FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("expected FetchError, got %v", err)
		}
		if fe.IsRetryable() {
			t.Error("a closed session must not be retryable")
		}
		if !errors.Is(err, types.ErrSessionClosed) {
			t.Errorf("expected ErrSessionClosed in chain, got %v", err)
		}
	})
}

func BenchmarkParseProfile(b *testing.B) {
	p := NewDetailParser(testLogger)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Parse(profileHTML, "https://www.bia.ge/Company/12345")
	}
}
