package storage

import (
	"strings"

	"github.com/IshaanNene/bizgoat/internal/types"
)

// column is one spreadsheet column. value returns nil for an empty cell.
// optional columns appear only while at least one record carries a
// meaningful value for them.
type column struct {
	header   string
	georgian string
	width    float64
	value    func(b *types.Business) any
	optional func(b *types.Business) *string
}

// negativeValues are boilerplate answers meaning "none" for service fields.
var negativeValues = map[string]struct{}{
	"არ ჰყავს":              {},
	"არ სარგებლობს":         {},
	"არ აქვს":               {},
	"არ ახორციელებს":        {},
	"არ აცხადებს ტენდერებს": {},
}

const (
	directorKeyword = "დირექტორი"
	managerKeyword  = "მენეჯერი"
)

func str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func num(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func list(v []string) any {
	if len(v) == 0 {
		return nil
	}
	return strings.Join(v, ", ")
}

func yesNo(p *bool) any {
	if p == nil {
		return nil
	}
	if *p {
		return "Yes"
	}
	return "No"
}

// personFor formats the first roster entry whose position contains keyword
// as "name | ID: x | Tel: y | Email: z".
func personFor(b *types.Business, keyword string) any {
	for _, p := range b.ContactPersons {
		if p.Position == nil || !strings.Contains(strings.ToLower(*p.Position), keyword) {
			continue
		}
		var parts []string
		if p.Name != nil && *p.Name != "" {
			parts = append(parts, *p.Name)
		}
		if p.PersonalID != nil && *p.PersonalID != "" {
			parts = append(parts, "ID: "+*p.PersonalID)
		}
		if p.Phone != nil && *p.Phone != "" {
			parts = append(parts, "Tel: "+*p.Phone)
		}
		if p.Email != nil && *p.Email != "" {
			parts = append(parts, "Email: "+*p.Email)
		}
		if len(parts) == 0 {
			return nil
		}
		return strings.Join(parts, " | ")
	}
	return nil
}

func gender(b *types.Business, male bool) any {
	if b.GenderDistribution == nil {
		return nil
	}
	if male {
		return b.GenderDistribution.Male
	}
	return b.GenderDistribution.Female
}

var baseColumns = []column{
	{header: "Company_ID", georgian: "კომპანიის ID", width: 16, value: func(b *types.Business) any { return str(b.ID) }},
	{header: "Name", georgian: "დასახელება", width: 32, value: func(b *types.Business) any { return str(b.Name) }},
	{header: "Tax_ID", georgian: "საიდენტიფიკაციო კოდი", width: 20, value: func(b *types.Business) any { return str(b.TaxPayerID) }},
	{header: "Legal_Form", georgian: "სამართლებრივი ფორმა", width: 24, value: func(b *types.Business) any { return str(b.LegalForm) }},
	{header: "Registration_Number", georgian: "რეგისტრაციის ნომერი", width: 16, value: func(b *types.Business) any { return str(b.RegistrationNumber) }},
	{header: "Registration_Date", georgian: "რეგისტრაციის თარიღი", width: 14, value: func(b *types.Business) any { return str(b.RegistrationDate) }},
	{header: "Registration_Authority", georgian: "მარეგისტრ. ორგანო", width: 26, value: func(b *types.Business) any { return str(b.RegistrationAuthority) }},
	{header: "Status", georgian: "სტატუსი", width: 16, value: func(b *types.Business) any { return str(b.Status) }},
	{header: "Work_Hours", georgian: "სამუშაო საათები", width: 24, value: func(b *types.Business) any { return str(b.WorkHours) }},
	{header: "Category", georgian: "საქმიანობის კატეგორიები", width: 26, value: func(b *types.Business) any { return str(b.Category) }},
	{header: "Subcategories", georgian: "ქვე-კატეგორიები", width: 30, value: func(b *types.Business) any { return list(b.Subcategories) }},
	{header: "Service_Categories", georgian: "საქმიანობის სფერო", width: 30, value: func(b *types.Business) any { return list(b.ServiceCategories) }},
	{header: "NACE_2004", georgian: "ეროვნული კლასიფიკატორები (NACE 2004)", width: 28, value: func(b *types.Business) any { return list(b.NACE2004) }},
	{header: "NACE_2016", georgian: "ეროვნული კლასიფიკატორები (NACE 2016)", width: 28, value: func(b *types.Business) any { return list(b.NACE2016) }},
	{header: "Trademarks", georgian: "სავაჭრო მარკები", width: 28, value: func(b *types.Business) any { return list(b.Trademarks) }},
	{header: "Brands", georgian: "ბრენდები", width: 24, value: func(b *types.Business) any { return list(b.Brands) }},
	{header: "Phones", georgian: "ტელეფონი", width: 24, value: func(b *types.Business) any { return list(b.PhoneNumbers) }},
	{header: "Emails", georgian: "იმეილი", width: 28, value: func(b *types.Business) any { return list(b.Emails) }},
	{header: "Website", georgian: "ვებ-საიტი", width: 30, value: func(b *types.Business) any { return str(b.Website) }},
	{header: "Address", georgian: "მისამართი", width: 40, value: func(b *types.Business) any { return str(b.Address) }},
	{header: "City", georgian: "ქალაქი", width: 16, value: func(b *types.Business) any { return str(b.City) }},
	{header: "Region", georgian: "რაიონი", width: 22, value: func(b *types.Business) any { return str(b.Region) }},
	{header: "Employee_Count", georgian: "თანამშრომელთა რ-ბა", width: 16, value: func(b *types.Business) any { return num(b.EmployeeCount) }},
	{header: "Temporary_Employees", georgian: "დროებითი თანამშრომლები", width: 20, value: func(b *types.Business) any { return num(b.TemporaryEmployees) }},
	{header: "Branches_Count", georgian: "ფილიალების რ-ბა", width: 16, value: func(b *types.Business) any { return num(b.Branches) }},
	{header: "Service_Centers_Count", georgian: "სერვის-ცენტრების რ-ბა", width: 22, value: func(b *types.Business) any { return num(b.ServiceCenters) }},
	{header: "Company_Size", georgian: "კომპანიის ზომა", width: 16, value: func(b *types.Business) any { return str(b.CompanySize) }},
	{header: "VAT_Payer", georgian: "დღგ-ს გადამხდელი", width: 12, value: func(b *types.Business) any { return yesNo(b.IsVATPayer) }},
	{header: "Avg_Employee_Age", georgian: "თანამშრომლების საშუალო ასაკი", width: 14, value: func(b *types.Business) any { return num(b.AvgEmployeeAge) }},
	{header: "Gender_Male_Pct", georgian: "გენდერული განაწილება (კაცი)", width: 14, value: func(b *types.Business) any { return gender(b, true) }},
	{header: "Gender_Female_Pct", georgian: "გენდერული განაწილება (ქალი)", width: 14, value: func(b *types.Business) any { return gender(b, false) }},
	{header: "Parent_Companies", georgian: "მშობელი კომპანიები", width: 32, value: func(b *types.Business) any { return str(b.ParentCompanies) }},
	{header: "Subsidiary_Companies", georgian: "შვილობილი კომპანიები", width: 32, value: func(b *types.Business) any { return str(b.SubsidiaryCompanies) }},
	{header: "Director", georgian: "დირექტორი", width: 40, value: func(b *types.Business) any { return personFor(b, directorKeyword) }},
	{header: "Manager", georgian: "მენეჯერი", width: 40, value: func(b *types.Business) any { return personFor(b, managerKeyword) }},
	{header: "Branches_Raw", georgian: "ფილიალები", width: 40, value: func(b *types.Business) any { return str(b.BranchesRaw) }},
	{header: "Service_Centers_Raw", georgian: "სერვის-ცენტრები", width: 32, value: func(b *types.Business) any { return str(b.ServiceCentersRaw) }},
	{header: "Tenders", georgian: "ტენდერები", width: 26, value: func(b *types.Business) any { return str(b.Tenders) }},
	{header: "Tenders_History", georgian: "ტენდერების ისტორია", width: 26, value: func(b *types.Business) any { return str(b.TendersHistory) }},
	{header: "Authorized_Capital", georgian: "საწესდებო კაპიტალი", width: 18, value: func(b *types.Business) any { return num(b.AuthorizedCapital) }},
	{header: "Computers_Count", georgian: "კომპიუტერების რ-ბა", width: 16, value: func(b *types.Business) any { return num(b.Computers) }},
	{header: "Turnover_Range", georgian: "ბრუნვის დიაპაზონი", width: 20, value: func(b *types.Business) any { return str(b.TurnoverRange) }},
	{header: "Middle_Avg_Salary", georgian: "შუა რგოლის თანამშ. საშ. ხელფასი", width: 18, value: func(b *types.Business) any { return str(b.MiddleAvgSalary) }},
	{header: "Lower_Avg_Salary", georgian: "ქვედა რგოლის თანამშ. საშ. ხელფასი", width: 18, value: func(b *types.Business) any { return str(b.LowerAvgSalary) }},
	{header: "Corporate_Vehicles", georgian: "კორპორატიული ავტომობილები", width: 18, value: func(b *types.Business) any { return num(b.CorporateVehicles) }},
	{header: "Description", georgian: "აღწერილობა", width: 60, value: func(b *types.Business) any { return str(b.Description) }},
	{header: "Social_Links", georgian: "სოციალური ბმულები", width: 32, value: func(b *types.Business) any { return list(b.SocialLinks) }},
}

func service(header, georgian string, width float64, field func(b *types.Business) *string) column {
	return column{
		header:   header,
		georgian: georgian,
		width:    width,
		value:    func(b *types.Business) any { return str(field(b)) },
		optional: field,
	}
}

var serviceColumns = []column{
	service("Social_Responsibility", "სოციალური პასუხისმგებლობა", 28, func(b *types.Business) *string { return b.SocialResponsibility }),
	service("Mobile_Service", "მობილური კავშირის მომსახურება", 24, func(b *types.Business) *string { return b.MobileService }),
	service("Internet_Service", "ინტერნეტ კავშირის მომსახურება", 28, func(b *types.Business) *string { return b.InternetService }),
	service("Oil_Companies", "მომსახურე ნავთობკომპანიები", 32, func(b *types.Business) *string { return b.OilCompanies }),
	service("Banks", "ბანკები", 40, func(b *types.Business) *string { return b.Banks }),
	service("Insurance", "დაზღვევა", 40, func(b *types.Business) *string { return b.Insurance }),
	service("Export_Info", "ექსპორტი", 32, func(b *types.Business) *string { return b.ExportInfo }),
	service("Import_Info", "იმპორტი", 36, func(b *types.Business) *string { return b.ImportInfo }),
	service("Local_Shipments", "ადგილობრივი გადაზიდვები", 32, func(b *types.Business) *string { return b.LocalShipments }),
	service("International_Shipments", "საერთაშორისო გადაზიდვები", 36, func(b *types.Business) *string { return b.InternationalShipments }),
	service("Local_Partners", "ადგილობრივი პარტნიორები", 32, func(b *types.Business) *string { return b.LocalPartners }),
	service("Foreign_Partners", "უცხოელი პარტნიორები", 36, func(b *types.Business) *string { return b.ForeignPartners }),
	service("Local_Suppliers", "ადგილობრივი მომწოდებლები", 32, func(b *types.Business) *string { return b.LocalSuppliers }),
	service("Foreign_Suppliers", "უცხოელი მომწოდებლები", 36, func(b *types.Business) *string { return b.ForeignSuppliers }),
	service("Local_Distributors", "ადგილობრივი დისტრიბუტორები", 32, func(b *types.Business) *string { return b.LocalDistributors }),
	service("Local_Dealers", "ადგილობრივი დილერები", 32, func(b *types.Business) *string { return b.LocalDealers }),
	service("Audit_Service", "აუდიტორული მომსახურება", 28, func(b *types.Business) *string { return b.AuditService }),
	service("Legal_Service", "იურიდიული მომსახურება", 28, func(b *types.Business) *string { return b.LegalService }),
	service("Accounting_Service", "საბუღალტრო მომსახურება", 28, func(b *types.Business) *string { return b.AccountingService }),
	service("Consulting_Service", "საკონსულტაციო მომსახურება", 28, func(b *types.Business) *string { return b.ConsultingService }),
	service("Advertising_Service", "სარეკლამო კომპანიების მომსახურება", 28, func(b *types.Business) *string { return b.AdvertisingService }),
	service("Courier_Service", "საკურიერო მომსახურება", 28, func(b *types.Business) *string { return b.CourierService }),
	service("Property_Valuation_Service", "ქონების საშემფასებლო მომსახურება", 32, func(b *types.Business) *string { return b.PropertyValuationService }),
}

var profileColumn = column{
	header: "Profile_URL", georgian: "პროფილის ბმული", width: 40,
	value: func(b *types.Business) any { return b.ProfileURL },
}

// meaningful reports whether v is present and not a boilerplate negative.
func meaningful(v *string) bool {
	if v == nil {
		return false
	}
	norm := strings.Join(strings.Fields(*v), " ")
	if norm == "" {
		return false
	}
	_, negative := negativeValues[norm]
	return !negative
}

// activeColumns returns the columns for records: the base set, every
// service column at least one record fills meaningfully, then the profile
// URL.
func activeColumns(records []*types.Business) []column {
	cols := make([]column, 0, len(baseColumns)+len(serviceColumns)+1)
	cols = append(cols, baseColumns...)
	for _, c := range serviceColumns {
		for _, r := range records {
			if meaningful(c.optional(r)) {
				cols = append(cols, c)
				break
			}
		}
	}
	return append(cols, profileColumn)
}

func sameHeaders(a, b []column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].header != b[i].header {
			return false
		}
	}
	return true
}
