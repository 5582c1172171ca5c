package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/output"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/store"
)

type jobList []domain.Job

func (l jobList) Table() *output.TableData {
	t := output.NewTableData("ID", "TITLE", "COMPANY", "LOCATION", "TYPE", "SALARY", "ACTIVE")
	for _, j := range l {
		t.AddRow(j.ID.String(), j.Title, companyName(j), location(j), j.JobType, salaryRange(j), yesNo(j.IsActive))
	}
	return t
}

type jobDetails domain.Job

func (j jobDetails) Table() *output.TableData {
	job := domain.Job(j)
	t := output.NewTableData("FIELD", "VALUE")
	t.AddRow("ID", job.ID.String())
	t.AddRow("Title", job.Title)
	t.AddRow("Company", companyName(job))
	t.AddRow("Location", location(job))
	t.AddRow("Type", job.JobType)
	t.AddRow("Experience", job.ExperienceLevel)
	t.AddRow("Salary", salaryRange(job))
	t.AddRow("Deadline", job.ApplicationDeadline)
	methods := make([]string, 0, 3)
	for _, m := range job.Methods() {
		methods = append(methods, string(m))
	}
	t.AddRow("Apply via", strings.Join(methods, ", "))
	skills := make([]string, 0, len(job.RequiredSkills))
	for _, s := range job.RequiredSkills {
		skills = append(skills, s.Skill)
	}
	t.AddRow("Skills", strings.Join(skills, ", "))
	t.AddRow("Active", yesNo(job.IsActive))
	t.AddRow("Saved", yesNo(job.IsSaved))
	return t
}

type savedJobList []domain.SavedJob

func (l savedJobList) Table() *output.TableData {
	t := output.NewTableData("ID", "TITLE", "COMPANY", "SAVED AT")
	for _, s := range l {
		t.AddRow(s.Job.ID.String(), s.Job.Title, companyName(s.Job), s.CreatedAt)
	}
	return t
}

type savedSearchList []domain.SavedSearch

func (l savedSearchList) Table() *output.TableData {
	t := output.NewTableData("ID", "NAME", "FILTERS", "CREATED")
	for _, s := range l {
		t.AddRow(s.ID.String(), s.Name, s.Summary(), s.CreatedAt)
	}
	return t
}

// searchPage страница результатов поиска вместе с адресом страницы
type searchPage struct {
	URL        string       `json:"url" yaml:"url"`
	Page       int          `json:"page" yaml:"page"`
	TotalPages int          `json:"total_pages" yaml:"total_pages"`
	TotalCount int          `json:"total_count" yaml:"total_count"`
	Jobs       []domain.Job `json:"jobs" yaml:"jobs"`
}

func (p searchPage) Table() *output.TableData {
	return jobList(p.Jobs).Table()
}

type applicationList []domain.Application

func (l applicationList) Table() *output.TableData {
	t := output.NewTableData("ID", "JOB", "APPLICANT", "STATUS", "APPLIED")
	for _, a := range l {
		title := a.JobTitle
		if title == "" && a.Job != nil {
			title = a.Job.Title
		}
		t.AddRow(a.ID.String(), title, a.ApplicantName, string(a.Status), a.AppliedDate)
	}
	return t
}

type applicationDetails domain.Application

func (a applicationDetails) Table() *output.TableData {
	t := applicationList{domain.Application(a)}.Table()
	for _, h := range a.StatusHistory {
		t.AddRow("", h.Notes, "history", string(h.Status), h.CreatedAt.Format(time.DateTime))
	}
	return t
}

type conversationList []domain.Conversation

func (l conversationList) Table() *output.TableData {
	t := output.NewTableData("ID", "SUBJECT", "JOB", "UNREAD", "LAST MESSAGE", "UPDATED")
	for _, c := range l {
		last := ""
		if c.LastMessage != nil {
			last = truncate(c.LastMessage.Content, 40)
		}
		t.AddRow(c.ID.String(), c.Subject, c.JobTitle, strconv.Itoa(c.UnreadCount), last, c.UpdatedAt)
	}
	return t
}

type messageList []domain.Message

func (l messageList) Table() *output.TableData {
	t := output.NewTableData("FROM", "SENT", "MESSAGE")
	for _, m := range l {
		t.AddRow(m.SenderName, m.CreatedAt, m.Content)
	}
	return t
}

type companyList []domain.Company

func (l companyList) Table() *output.TableData {
	t := output.NewTableData("ID", "NAME", "INDUSTRY", "LOCATION", "VERIFIED")
	for _, c := range l {
		t.AddRow(c.ID.String(), c.Name, c.Industry, c.Location, yesNo(c.IsVerified))
	}
	return t
}

type memberList []domain.TeamMember

func (l memberList) Table() *output.TableData {
	t := output.NewTableData("ID", "EMAIL", "NAME", "ROLE", "ACTIVE")
	for _, m := range l {
		t.AddRow(m.ID.String(), m.UserEmail, m.UserName, m.Role, yesNo(m.IsActive))
	}
	return t
}

type invitationList []domain.Invitation

func (l invitationList) Table() *output.TableData {
	t := output.NewTableData("ID", "EMAIL", "ROLE", "INVITED BY", "ACCEPTED", "EXPIRES")
	for _, i := range l {
		t.AddRow(i.ID.String(), i.Email, i.Role, i.InvitedByName, yesNo(i.IsAccepted), i.ExpiresAt)
	}
	return t
}

// authStatus состояние входа для команды auth status
type authStatus struct {
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	SessionValid  bool   `json:"session_valid" yaml:"session_valid"`
	Email         string `json:"email,omitempty" yaml:"email,omitempty"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	Role          string `json:"role,omitempty" yaml:"role,omitempty"`
	Company       string `json:"company,omitempty" yaml:"company,omitempty"`
}

func newAuthStatus(st store.State, valid bool) authStatus {
	out := authStatus{Authenticated: st.Auth.IsAuthenticated, SessionValid: valid}
	if u := st.Auth.User; u != nil {
		out.Email = u.Email
		out.Name = u.FullName()
		out.Role = string(u.Role())
	}
	if c := st.Company.Company; c != nil {
		out.Company = c.Name
	}
	return out
}

func (s authStatus) Table() *output.TableData {
	t := output.NewTableData("FIELD", "VALUE")
	t.AddRow("Authenticated", yesNo(s.Authenticated))
	t.AddRow("Session valid", yesNo(s.SessionValid))
	if s.Email != "" {
		t.AddRow("Email", s.Email)
		t.AddRow("Name", s.Name)
		t.AddRow("Role", s.Role)
	}
	if s.Company != "" {
		t.AddRow("Company", s.Company)
	}
	return t
}

type profileDetails domain.Profile

func (p profileDetails) Table() *output.TableData {
	t := output.NewTableData("FIELD", "VALUE")
	t.AddRow("ID", p.ID.String())
	t.AddRow("Title", p.JobTitle)
	t.AddRow("Country", p.Country)
	t.AddRow("Experience (years)", strconv.Itoa(p.YearsExperience))
	t.AddRow("Strength", strconv.Itoa(p.ProfileStrength)+"%")
	skills := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		skills = append(skills, s.Name)
	}
	t.AddRow("Skills", strings.Join(skills, ", "))
	t.AddRow("Experiences", strconv.Itoa(len(p.Experiences)))
	t.AddRow("Education", strconv.Itoa(len(p.Education)))
	t.AddRow("Certifications", strconv.Itoa(len(p.Certifications)))
	t.AddRow("Portfolio", strconv.Itoa(len(p.PortfolioItems)))
	return t
}

func companyName(j domain.Job) string {
	if j.Company != nil && j.Company.Name != "" {
		return j.Company.Name
	}
	return j.CompanyName
}

func location(j domain.Job) string {
	switch {
	case j.IsRemote && j.Location != "":
		return j.Location + " (remote)"
	case j.IsRemote:
		return "Remote"
	case j.IsHybrid:
		return j.Location + " (hybrid)"
	default:
		return j.Location
	}
}

func salaryRange(j domain.Job) string {
	format := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	switch {
	case j.MinSalary != nil && j.MaxSalary != nil:
		return format(*j.MinSalary) + "-" + format(*j.MaxSalary) + " " + j.SalaryCurrency
	case j.MinSalary != nil:
		return "from " + format(*j.MinSalary) + " " + j.SalaryCurrency
	case j.MaxSalary != nil:
		return "up to " + format(*j.MaxSalary) + " " + j.SalaryCurrency
	default:
		return ""
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
