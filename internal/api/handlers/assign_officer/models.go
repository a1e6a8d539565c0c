package assign_officer

// AssignOfficerRequest HTTP модель назначения сотрудника
type AssignOfficerRequest struct {
	OfficerID string `json:"officerId"`
}
