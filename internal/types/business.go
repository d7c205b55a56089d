package types

// GenderDistribution is the male/female split reported on a company profile.
type GenderDistribution struct {
	Male   int `json:"male"   bson:"male"`
	Female int `json:"female" bson:"female"`
}

// ContactPerson is one entry of a company's management roster.
type ContactPerson struct {
	Name       *string `json:"name"       bson:"name"`
	Position   *string `json:"position"   bson:"position"`
	Phone      *string `json:"phone"      bson:"phone"`
	Email      *string `json:"email"      bson:"email"`
	PersonalID *string `json:"personalId" bson:"personalId"`
}

// Business is the normalized record produced for one company detail page.
// Optional scalars are pointers so that an absent value serializes as null;
// list fields are never nil.
type Business struct {
	ID           *string `json:"id"           bson:"id"`
	Name         *string `json:"name"         bson:"name"`
	NameGeorgian *string `json:"nameGeorgian" bson:"nameGeorgian"`
	NameLatin    *string `json:"nameLatin"    bson:"nameLatin"`

	TaxPayerID            *string `json:"taxPayerId"            bson:"taxPayerId"`
	LegalForm             *string `json:"legalForm"             bson:"legalForm"`
	RegistrationNumber    *string `json:"registrationNumber"    bson:"registrationNumber"`
	RegistrationDate      *string `json:"registrationDate"      bson:"registrationDate"`
	RegistrationAuthority *string `json:"registrationAuthority" bson:"registrationAuthority"`
	Status                *string `json:"status"                bson:"status"`
	WorkHours             *string `json:"workHours"             bson:"workHours"`

	Trademarks        []string `json:"trademarks"        bson:"trademarks"`
	Brands            []string `json:"brands"            bson:"brands"`
	Category          *string  `json:"category"          bson:"category"`
	Subcategories     []string `json:"subcategories"     bson:"subcategories"`
	ServiceCategories []string `json:"serviceCategories" bson:"serviceCategories"`
	NACE2004          []string `json:"nace2004"          bson:"nace2004"`
	NACE2016          []string `json:"nace2016"          bson:"nace2016"`

	BranchesRaw       *string `json:"branchesRaw"       bson:"branchesRaw"`
	ServiceCentersRaw *string `json:"serviceCentersRaw" bson:"serviceCentersRaw"`
	Tenders           *string `json:"tenders"           bson:"tenders"`
	TendersHistory    *string `json:"tendersHistory"    bson:"tendersHistory"`

	PhoneNumbers     []string `json:"phoneNumbers"     bson:"phoneNumbers"`
	PhoneNumbersE164 []string `json:"phoneNumbersE164" bson:"phoneNumbersE164"`
	Emails           []string `json:"emails"           bson:"emails"`
	Website          *string  `json:"website"          bson:"website"`
	Address          *string  `json:"address"          bson:"address"`
	LegalAddress     *string  `json:"legalAddress"     bson:"legalAddress"`
	City             *string  `json:"city"             bson:"city"`
	Region           *string  `json:"region"           bson:"region"`
	Description      *string  `json:"description"      bson:"description"`

	ContactPersons []ContactPerson `json:"contactPersons" bson:"contactPersons"`

	EmployeeCount       *int                `json:"employeeCount"       bson:"employeeCount"`
	TemporaryEmployees  *int                `json:"temporaryEmployees"  bson:"temporaryEmployees"`
	Branches            *int                `json:"branches"            bson:"branches"`
	ServiceCenters      *int                `json:"serviceCenters"      bson:"serviceCenters"`
	CompanySize         *string             `json:"companySize"         bson:"companySize"`
	AuthorizedCapital   *int                `json:"authorizedCapital"   bson:"authorizedCapital"`
	IsVATPayer          *bool               `json:"isVATPayer"          bson:"isVATPayer"`
	ManagementAvgSalary *string             `json:"managementAvgSalary" bson:"managementAvgSalary"`
	MiddleAvgSalary     *string             `json:"middleAvgSalary"     bson:"middleAvgSalary"`
	LowerAvgSalary      *string             `json:"lowerAvgSalary"      bson:"lowerAvgSalary"`
	TurnoverRange       *string             `json:"turnoverRange"       bson:"turnoverRange"`
	CorporateVehicles   *int                `json:"corporateVehicles"   bson:"corporateVehicles"`
	Computers           *int                `json:"computers"           bson:"computers"`
	AvgEmployeeAge      *int                `json:"avgEmployeeAge"      bson:"avgEmployeeAge"`
	GenderDistribution  *GenderDistribution `json:"genderDistribution"  bson:"genderDistribution"`

	ParentCompanies     *string  `json:"parentCompanies"     bson:"parentCompanies"`
	SubsidiaryCompanies *string  `json:"subsidiaryCompanies" bson:"subsidiaryCompanies"`
	Founders            []string `json:"founders"            bson:"founders"`
	Certifications      []string `json:"certifications"      bson:"certifications"`
	SocialLinks         []string `json:"socialLinks"         bson:"socialLinks"`

	Services `bson:",inline"`

	ProfileURL  string  `json:"profileUrl"  bson:"profileUrl"`
	LastUpdated *string `json:"lastUpdated" bson:"lastUpdated"`

	RawPageContent     *string `json:"rawPageContent"     bson:"rawPageContent"`
	RawTabPanelContent *string `json:"rawTabPanelContent" bson:"rawTabPanelContent"`

	// ExtraFields holds the complete label map of the profile.
	ExtraFields map[string]string `json:"extraFields" bson:"extraFields"`
}

// Services groups the free-text "service availability" fields of a profile.
type Services struct {
	SocialResponsibility     *string `json:"socialResponsibility"     bson:"socialResponsibility"`
	MobileService            *string `json:"mobileService"            bson:"mobileService"`
	InternetService          *string `json:"internetService"          bson:"internetService"`
	OilCompanies             *string `json:"oilCompanies"             bson:"oilCompanies"`
	Banks                    *string `json:"banks"                    bson:"banks"`
	Insurance                *string `json:"insurance"                bson:"insurance"`
	ExportInfo               *string `json:"exportInfo"               bson:"exportInfo"`
	ImportInfo               *string `json:"importInfo"               bson:"importInfo"`
	LocalShipments           *string `json:"localShipments"           bson:"localShipments"`
	InternationalShipments   *string `json:"internationalShipments"   bson:"internationalShipments"`
	LocalPartners            *string `json:"localPartners"            bson:"localPartners"`
	ForeignPartners          *string `json:"foreignPartners"          bson:"foreignPartners"`
	LocalSuppliers           *string `json:"localSuppliers"           bson:"localSuppliers"`
	ForeignSuppliers         *string `json:"foreignSuppliers"         bson:"foreignSuppliers"`
	LocalDistributors        *string `json:"localDistributors"        bson:"localDistributors"`
	LocalDealers             *string `json:"localDealers"             bson:"localDealers"`
	AuditService             *string `json:"auditService"             bson:"auditService"`
	LegalService             *string `json:"legalService"             bson:"legalService"`
	AccountingService        *string `json:"accountingService"        bson:"accountingService"`
	ConsultingService        *string `json:"consultingService"        bson:"consultingService"`
	AdvertisingService       *string `json:"advertisingService"       bson:"advertisingService"`
	CourierService           *string `json:"courierService"           bson:"courierService"`
	PropertyValuationService *string `json:"propertyValuationService" bson:"propertyValuationService"`
}

// NewBusiness returns a record for profileURL with every list field
// initialized to an empty slice.
func NewBusiness(profileURL string) *Business {
	return &Business{
		ProfileURL:        profileURL,
		Trademarks:        []string{},
		Brands:            []string{},
		Subcategories:     []string{},
		ServiceCategories: []string{},
		NACE2004:          []string{},
		NACE2016:          []string{},
		PhoneNumbers:      []string{},
		PhoneNumbersE164:  []string{},
		Emails:            []string{},
		ContactPersons:    []ContactPerson{},
		Founders:          []string{},
		Certifications:    []string{},
		SocialLinks:       []string{},
		ExtraFields:       map[string]string{},
	}
}

// Clone returns a copy of b whose slices and maps are not shared with b.
func (b *Business) Clone() *Business {
	if b == nil {
		return nil
	}
	c := *b
	c.Trademarks = cloneStrings(b.Trademarks)
	c.Brands = cloneStrings(b.Brands)
	c.Subcategories = cloneStrings(b.Subcategories)
	c.ServiceCategories = cloneStrings(b.ServiceCategories)
	c.NACE2004 = cloneStrings(b.NACE2004)
	c.NACE2016 = cloneStrings(b.NACE2016)
	c.PhoneNumbers = cloneStrings(b.PhoneNumbers)
	c.PhoneNumbersE164 = cloneStrings(b.PhoneNumbersE164)
	c.Emails = cloneStrings(b.Emails)
	c.Founders = cloneStrings(b.Founders)
	c.Certifications = cloneStrings(b.Certifications)
	c.SocialLinks = cloneStrings(b.SocialLinks)
	c.ContactPersons = append([]ContactPerson{}, b.ContactPersons...)
	if b.GenderDistribution != nil {
		g := *b.GenderDistribution
		c.GenderDistribution = &g
	}
	c.ExtraFields = make(map[string]string, len(b.ExtraFields))
	for k, v := range b.ExtraFields {
		c.ExtraFields[k] = v
	}
	return &c
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// DisplayName returns the best available name or an empty string.
func (b *Business) DisplayName() string {
	if b.Name != nil {
		return *b.Name
	}
	return ""
}
