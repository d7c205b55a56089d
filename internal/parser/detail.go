package parser

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/bizgoat/internal/types"
)

var (
	companyIDPattern   = regexp.MustCompile(`(?i)/Company/(\d+)`)
	georgianPattern    = regexp.MustCompile(`[\x{10A0}-\x{10FF}]`)
	latinPattern       = regexp.MustCompile(`[A-Za-z]`)
	phoneLinePattern   = regexp.MustCompile(`^\+\s*\d+$`)
	textPhonePattern   = regexp.MustCompile(`\+995[0-9 \t\x{00A0},]+`)
	taxIDPattern       = regexp.MustCompile(`საიდენტიფიკაციო კოდი:\s*([0-9]+)`)
	regNumberPattern   = regexp.MustCompile(`რეგისტრაციის ნომერი:\s*([0-9A-Za-z/-]+)`)
	vatPattern         = regexp.MustCompile(`დღგ-ს გადამხდელი:\s*(არ არის|არის)`)
	lastUpdatedPattern = regexp.MustCompile(`ბოლო განახლების თარიღი:\s*([0-9]{2}/[0-9]{2}/[0-9]{4})`)
	avgAgePattern      = regexp.MustCompile(`თანამშრომლების საშუალო ასაკი:\s*([0-9]+)`)
	malePattern        = regexp.MustCompile(`გენდერული განაწილება \(კაცი\):\s*([0-9]+)%`)
	femalePattern      = regexp.MustCompile(`გენდერული განაწილება \(ქალი\):\s*([0-9]+)%`)
)

// PageSource is the part of a browser session the detail parser needs.
type PageSource interface {
	Navigate(ctx context.Context, url string) error
	URL() string
	HTML(ctx context.Context) (string, error)
}

// Snapshot is the rendered HTML of a detail page as it was parsed.
type Snapshot struct {
	URL        string
	HTML       string
	CapturedAt time.Time
}

// DetailParser turns rendered company profile pages into Business records.
type DetailParser struct {
	logger *slog.Logger
}

// NewDetailParser creates a new DetailParser.
func NewDetailParser(logger *slog.Logger) *DetailParser {
	return &DetailParser{
		logger: logger.With("component", "detail_parser"),
	}
}

// ExtractID returns the numeric company id embedded in a profile URL.
func ExtractID(profileURL string) *string {
	m := companyIDPattern.FindStringSubmatch(profileURL)
	if m == nil {
		return nil
	}
	return &m[1]
}

// Scrape loads url in src and parses the rendered page. Only a failure to
// load the page is returned as an error.
func (p *DetailParser) Scrape(ctx context.Context, src PageSource, url string) (*types.Business, *Snapshot, error) {
	if err := src.Navigate(ctx, url); err != nil {
		return nil, nil, types.NewFetchError(url, err)
	}

	profileURL := src.URL()
	if profileURL == "" {
		profileURL = url
	}

	raw, err := src.HTML(ctx)
	if err != nil {
		return nil, nil, types.NewFetchError(url, err)
	}

	rec := p.Parse(raw, profileURL)
	return rec, &Snapshot{URL: profileURL, HTML: raw, CapturedAt: time.Now()}, nil
}

// Parse builds a record from rendered HTML. It never fails: anything missing
// from the page leaves the corresponding field null or empty.
func (p *DetailParser) Parse(rawHTML, profileURL string) (rec *types.Business) {
	rec = types.NewBusiness(profileURL)
	rec.ID = ExtractID(profileURL)

	defer func() {
		if r := recover(); r != nil {
			err := &types.ParseError{URL: profileURL, Err: fmt.Errorf("recovered: %v", r)}
			p.logger.Error("detail parse aborted", "url", profileURL, "error", err)
		}
	}()

	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		p.logger.Warn("unparsable detail page", "url", profileURL, "error", err)
		return rec
	}
	doc := goquery.NewDocumentFromNode(root)

	pageText := sectionText(doc, selPageContent)
	tabText := sectionText(doc, selTabPanel)
	labels := buildLabelMap(doc)
	contacts := parseContactBox(root, profileURL)
	people := parseManagement(doc)

	text := joinTexts(pageText, tabText)

	p.fill(rec, labels, contacts, text)
	rec.ContactPersons = people
	rec.SocialLinks = parseSocialLinks(doc)
	rec.NameGeorgian, rec.NameLatin, rec.Name = resolveNames(pageText)
	rec.RawPageContent = pageText
	rec.RawTabPanelContent = tabText

	p.logger.Debug("detail parsed",
		"url", profileURL,
		"labels", len(labels),
		"people", len(people),
		"phones", len(rec.PhoneNumbers),
	)
	return rec
}

func (p *DetailParser) fill(rec *types.Business, labels Labels, contacts contactBox, text string) {
	rec.TaxPayerID = Resolve(labels.Get(LabelTaxID), firstMatch(taxIDPattern, text))
	rec.RegistrationNumber = Resolve(
		Resolve(labels.Get(LabelRegistrationNumber), firstMatch(regNumberPattern, text)),
		func() *string { return rec.TaxPayerID },
	)
	rec.LegalForm = labels.Get(LabelLegalForm)
	rec.RegistrationDate = labels.Get(LabelRegistrationDate)
	rec.RegistrationAuthority = labels.Get(LabelRegistrationAuthority)
	rec.Status = labels.Get(LabelStatus)
	rec.WorkHours = labels.Get(LabelWorkHours)
	rec.LastUpdated = Resolve(labels.Get(LabelLastUpdated), firstMatch(lastUpdatedPattern, text))
	rec.IsVATPayer = parseVAT(Resolve(labels.Get(LabelVATPayer), firstMatch(vatPattern, text)))

	rec.Category = labels.Get(LabelCategories)
	rec.Subcategories = labels.List(LabelCategories)
	rec.ServiceCategories = labels.List(LabelServiceCategories)
	rec.Trademarks = labels.Nested(LabelTrademarks)
	rec.Brands = labels.Nested(LabelBrands)
	rec.NACE2004 = labels.Nested(LabelNACE2004)
	rec.NACE2016 = labels.Nested(LabelNACE2016)

	rec.BranchesRaw = labels.Get(LabelBranches)
	rec.ServiceCentersRaw = labels.Get(LabelServiceCenters)
	rec.Tenders = labels.Get(LabelTenders)
	rec.TendersHistory = labels.Get(LabelTendersHistory)

	rec.PhoneNumbers = DedupeNonEmpty(append(contacts.Phones, textPhones(text)...)...)
	rec.PhoneNumbersE164 = NormalizePhones(rec.PhoneNumbers)
	rec.Emails = DedupeNonEmpty(append(contacts.Emails, emailPattern.FindAllString(text, -1)...)...)
	rec.Website = contacts.Website

	rec.LegalAddress = labels.Get(LabelLegalAddressTypo, LabelLegalAddress)
	rec.Address = Resolve(contacts.Address, func() *string { return rec.LegalAddress })
	rec.City, rec.Region = cityAndRegion(rec.Address)

	rec.EmployeeCount = ParseInteger(labels.Get(LabelEmployeeCount))
	rec.TemporaryEmployees = ParseInteger(labels.Get(LabelTemporaryEmployees))
	rec.Branches = ParseInteger(labels.Get(LabelBranchesCount))
	rec.ServiceCenters = ParseInteger(labels.Get(LabelServiceCentersCount))
	rec.Computers = ParseInteger(labels.Get(LabelComputers))
	rec.AuthorizedCapital = ParseInteger(labels.Get(LabelAuthorizedCapital))
	rec.AvgEmployeeAge = ResolveInt(
		ParseInteger(labels.Get(LabelAvgEmployeeAge)),
		func() *int { return ParseInteger(firstMatch(avgAgePattern, text)()) },
	)
	rec.GenderDistribution = ParseGenderDistribution(labels.Get(LabelGenderMale), labels.Get(LabelGenderFemale))
	if rec.GenderDistribution == nil {
		rec.GenderDistribution = ParseGenderDistribution(
			firstMatch(malePattern, text)(),
			firstMatch(femalePattern, text)(),
		)
	}

	rec.CompanySize = labels.Get(LabelCompanySize)
	rec.TurnoverRange = labels.Get(LabelTurnoverRange)
	rec.ManagementAvgSalary = labels.Get(LabelManagementAvgSalary)
	rec.MiddleAvgSalary = labels.Get(LabelMiddleAvgSalary)
	rec.LowerAvgSalary = labels.Get(LabelLowerAvgSalary)
	if v := labels.Get(LabelCorporateVehicles); v != nil && strings.Contains(*v, vehiclesNone) {
		rec.CorporateVehicles = intPtr(0)
	}

	rec.ParentCompanies = labels.Get(LabelParentCompanies)
	rec.SubsidiaryCompanies = labels.Get(LabelSubsidiaryCompanies)
	rec.Founders = SplitList(labels.Get(LabelFounders), "||")
	rec.Certifications = labels.List(LabelCertifications)

	rec.Services = types.Services{
		SocialResponsibility:     labels.Get(LabelSocialResponsibility),
		MobileService:            labels.Get(LabelMobileService),
		InternetService:          labels.Get(LabelInternetService),
		OilCompanies:             labels.Get(LabelOilCompanies),
		Banks:                    labels.Get(LabelBanks),
		Insurance:                labels.Get(LabelInsurance),
		ExportInfo:               labels.Get(LabelExport),
		ImportInfo:               labels.Get(LabelImport),
		LocalShipments:           labels.Get(LabelLocalShipments),
		InternationalShipments:   labels.Get(LabelInternationalShipments),
		LocalPartners:            labels.Get(LabelLocalPartners),
		ForeignPartners:          labels.Get(LabelForeignPartners),
		LocalSuppliers:           labels.Get(LabelLocalSuppliers),
		ForeignSuppliers:         labels.Get(LabelForeignSuppliers),
		LocalDistributors:        labels.Get(LabelLocalDistributors),
		LocalDealers:             labels.Get(LabelLocalDealers),
		AuditService:             labels.Get(LabelAuditService),
		LegalService:             labels.Get(LabelLegalService),
		AccountingService:        labels.Get(LabelAccountingService),
		ConsultingService:        labels.Get(LabelConsultingService),
		AdvertisingService:       labels.Get(LabelAdvertisingService),
		CourierService:           labels.Get(LabelCourierService),
		PropertyValuationService: labels.Get(LabelPropertyValuationService),
	}

	rec.ExtraFields = labels
}

// firstMatch returns a fallback that yields the first capture group of re in text.
func firstMatch(re *regexp.Regexp, text string) func() *string {
	return func() *string {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			return nil
		}
		return optional(m[1])
	}
}

func joinTexts(parts ...*string) string {
	var present []string
	for _, p := range parts {
		if p != nil {
			present = append(present, *p)
		}
	}
	return strings.Join(present, "\n\n")
}

func textPhones(text string) []string {
	var out []string
	for _, block := range textPhonePattern.FindAllString(text, -1) {
		out = append(out, strings.Split(block, ",")...)
	}
	return out
}

func parseVAT(v *string) *bool {
	if v == nil {
		return nil
	}
	switch {
	case strings.Contains(*v, vatNo):
		return boolPtr(false)
	case strings.Contains(*v, vatYes):
		return boolPtr(true)
	}
	return nil
}

// resolveNames scans the header text line by line. The first Georgian line is
// the native name, the first Latin line the Latin name; without a Latin line
// the first meaningful line stands in. The display name prefers Georgian.
func resolveNames(pageText *string) (georgian, latin, name *string) {
	if pageText == nil {
		return nil, nil, nil
	}

	var first *string
	for _, line := range strings.Split(*pageText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == noLogoPlaceholder || phoneLinePattern.MatchString(line) {
			continue
		}
		if first == nil {
			first = optional(line)
		}
		if georgian == nil && georgianPattern.MatchString(line) {
			georgian = optional(line)
		}
		if latin == nil && latinPattern.MatchString(line) {
			latin = optional(line)
		}
	}
	if latin == nil {
		latin = first
	}
	name = georgian
	if name == nil {
		name = latin
	}
	return georgian, latin, name
}

// cityAndRegion derives both from a comma separated address of at least three
// parts: the second part is the city, the first part naming a district is the region.
func cityAndRegion(address *string) (city, region *string) {
	if address == nil {
		return nil, nil
	}
	parts := strings.Split(*address, ",")
	if len(parts) < 3 {
		return nil, nil
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	city = optional(parts[1])
	for _, part := range parts {
		if strings.Contains(part, regionMarker) {
			region = optional(part)
			break
		}
	}
	return city, region
}
