package dto

// DashboardRow is a flattened record row as shown in a dashboard table.
type DashboardRow map[string]string

// SchoolDashboard is the role-scoped read view for school staff.
type SchoolDashboard struct {
	Students          []DashboardRow `json:"students"`
	AllStudents       []DashboardRow `json:"allStudents"`
	MyStudents        []DashboardRow `json:"myStudents"`
	Teachers          []DashboardRow `json:"teachers"`
	EducationManagers []DashboardRow `json:"educationManagers"`
	Admins            []DashboardRow `json:"admins"`
	LiahubCompanies   []DashboardRow `json:"liahubCompanies"`
	Companies         []DashboardRow `json:"companies"`
}

// CompanyProfile is the organization block on the student/company view.
type CompanyProfile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ContactEmail   string `json:"contactEmail,omitempty"`
	Phone          string `json:"phone,omitempty"`
	City           string `json:"city,omitempty"`
	ContractSigned bool   `json:"contractSigned"`
}

// StudentDashboard is the read view for students and companies. Companies
// see the students placed with them; students see their own row.
type StudentDashboard struct {
	Students []DashboardRow  `json:"students"`
	Company  *CompanyProfile `json:"company,omitempty"`
}
