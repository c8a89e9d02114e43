package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/liahub/liahub-backend/internal/app/models"
	"github.com/liahub/liahub-backend/internal/pkg/apperrors"
)

var testLogger = zerolog.Nop()

type fakeRecordStore struct {
	records map[uuid.UUID]*models.SchoolRecord
	order   []uuid.UUID

	createErr error
}

func newFakeRecordStore(recs ...*models.SchoolRecord) *fakeRecordStore {
	s := &fakeRecordStore{records: map[uuid.UUID]*models.SchoolRecord{}}
	for _, rec := range recs {
		s.records[rec.ID] = rec
		s.order = append(s.order, rec.ID)
	}
	return s
}

func (s *fakeRecordStore) Create(_ context.Context, rec *models.SchoolRecord) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.records[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	return nil
}

func (s *fakeRecordStore) GetByID(_ context.Context, id uuid.UUID) (*models.SchoolRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, apperrors.ErrRecordNotFound
	}
	return rec, nil
}

func (s *fakeRecordStore) ListByOrganization(_ context.Context, orgID uuid.UUID, types ...models.RecordType) ([]*models.SchoolRecord, error) {
	var out []*models.SchoolRecord
	for _, id := range s.order {
		rec := s.records[id]
		if rec.OrganizationID != orgID {
			continue
		}
		if len(types) > 0 && !containsType(types, rec.Type) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *fakeRecordStore) Update(_ context.Context, rec *models.SchoolRecord) error {
	if _, ok := s.records[rec.ID]; !ok {
		return apperrors.ErrRecordNotFound
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *fakeRecordStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.records[id]; !ok {
		return apperrors.ErrRecordNotFound
	}
	delete(s.records, id)
	return nil
}

// ApplyAssignmentDecision mirrors the conditional jsonb merge of the real
// store: the patch lands only while the assignment is pending and bound to
// the given company.
func (s *fakeRecordStore) ApplyAssignmentDecision(_ context.Context, recordID, companyID uuid.UUID, patch map[string]any) (bool, error) {
	rec, ok := s.records[recordID]
	if !ok || rec.Type != models.RecordTypeStudent {
		return false, nil
	}
	d, ok := rec.Data.(*models.StudentData)
	if !ok || d.AssignedCompanyID != companyID.String() || d.AssignmentStatus != models.AssignmentPending {
		return false, nil
	}
	return true, mergePatch(rec, patch)
}

func (s *fakeRecordStore) SetNotificationState(_ context.Context, recordID uuid.UUID, patch map[string]any) error {
	rec, ok := s.records[recordID]
	if !ok {
		return apperrors.ErrRecordNotFound
	}
	return mergePatch(rec, patch)
}

func (s *fakeRecordStore) ListFailedCompanyNotifications(_ context.Context) ([]*models.SchoolRecord, error) {
	var out []*models.SchoolRecord
	for _, id := range s.order {
		rec, ok := s.records[id]
		if !ok || rec.Type != models.RecordTypeStudent {
			continue
		}
		if d, ok := rec.Data.(*models.StudentData); ok && d.CompanyNotified == models.NotificationFailed {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *fakeRecordStore) ListStudentsForCompany(_ context.Context, companyID uuid.UUID, companyName string) ([]*models.SchoolRecord, error) {
	var out []*models.SchoolRecord
	for _, id := range s.order {
		rec := s.records[id]
		d, ok := rec.Data.(*models.StudentData)
		if !ok {
			continue
		}
		if d.AssignedCompanyID == companyID.String() || strings.EqualFold(strings.TrimSpace(d.Placement), strings.TrimSpace(companyName)) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *fakeRecordStore) FindStudentByEmail(_ context.Context, email string) (*models.SchoolRecord, error) {
	for _, id := range s.order {
		rec := s.records[id]
		if d, ok := rec.Data.(*models.StudentData); ok && strings.EqualFold(d.Email, email) {
			return rec, nil
		}
	}
	return nil, apperrors.ErrRecordNotFound
}

// mergePatch reproduces data || patch by round-tripping through JSON.
func mergePatch(rec *models.SchoolRecord, patch map[string]any) error {
	raw, err := json.Marshal(rec.Data)
	if err != nil {
		return err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	for k, v := range patch {
		m[k] = v
	}
	merged, err := json.Marshal(m)
	if err != nil {
		return err
	}
	data, err := models.DecodeRecordData(rec.Type, merged)
	if err != nil {
		return err
	}
	rec.Data = data
	return nil
}

func containsType(types []models.RecordType, t models.RecordType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

type fakeOrganizationStore struct {
	orgs map[uuid.UUID]*models.Organization

	deleteErr error
	deleted   []uuid.UUID
}

func newFakeOrganizationStore(orgs ...*models.Organization) *fakeOrganizationStore {
	s := &fakeOrganizationStore{orgs: map[uuid.UUID]*models.Organization{}}
	for _, org := range orgs {
		s.orgs[org.ID] = org
	}
	return s
}

func (s *fakeOrganizationStore) Create(_ context.Context, org *models.Organization) error {
	s.orgs[org.ID] = org
	return nil
}

func (s *fakeOrganizationStore) GetByID(_ context.Context, id uuid.UUID) (*models.Organization, error) {
	org, ok := s.orgs[id]
	if !ok {
		return nil, apperrors.ErrOrganizationNotFound
	}
	return org, nil
}

func (s *fakeOrganizationStore) FindByName(_ context.Context, name string) (*models.Organization, error) {
	for _, org := range s.orgs {
		if strings.EqualFold(strings.TrimSpace(org.Name), strings.TrimSpace(name)) {
			return org, nil
		}
	}
	return nil, apperrors.ErrOrganizationNotFound
}

func (s *fakeOrganizationStore) ListByKind(_ context.Context, kind models.OrganizationKind) ([]*models.Organization, error) {
	var out []*models.Organization
	for _, org := range s.orgs {
		if org.Kind == kind {
			out = append(out, org)
		}
	}
	return out, nil
}

func (s *fakeOrganizationStore) Delete(_ context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.orgs[id]; !ok {
		return apperrors.ErrOrganizationNotFound
	}
	delete(s.orgs, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type fakeUserStore struct {
	users []*models.User

	// orgNames resolves organization IDs to names for the company-by-name
	// lookup the real store does with a join.
	orgNames map[uuid.UUID]string

	deleteErr error
	deleted   []uuid.UUID
}

func (s *fakeUserStore) Create(_ context.Context, u *models.User) error {
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperrors.ErrResourceAlreadyExists
		}
	}
	s.users = append(s.users, u)
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *fakeUserStore) ListByOrganizationWithRoles(_ context.Context, orgID uuid.UUID, roles []string) ([]*models.User, error) {
	var out []*models.User
	for _, u := range s.users {
		if u.OrganizationID != orgID {
			continue
		}
		for _, role := range roles {
			if u.HasRole(role) {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeUserStore) ListCompanyUsersByOrganizationName(_ context.Context, name string) ([]*models.User, error) {
	var out []*models.User
	for _, u := range s.users {
		if !u.HasRole(models.RoleCompany) {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(s.orgNames[u.OrganizationID]), strings.TrimSpace(name)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) DeleteByOrganization(_ context.Context, orgID uuid.UUID) (int64, error) {
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	var kept []*models.User
	var n int64
	for _, u := range s.users {
		if u.OrganizationID == orgID {
			n++
			s.deleted = append(s.deleted, u.ID)
			continue
		}
		kept = append(kept, u)
	}
	s.users = kept
	return n, nil
}

type fakeNotificationStore struct {
	created []*models.Notification

	createErr error
}

func (s *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, n)
	return nil
}

func (s *fakeNotificationStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range s.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *fakeNotificationStore) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	for _, n := range s.created {
		if n.ID == id && n.UserID == userID {
			return nil
		}
	}
	return apperrors.ErrResourceNotFound
}

type fakeContractStore struct {
	deleteErr error
	deleted   []uuid.UUID
}

func (s *fakeContractStore) DeleteByOrganization(_ context.Context, orgID uuid.UUID) (int64, error) {
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	s.deleted = append(s.deleted, orgID)
	return 1, nil
}

type fakeEmailService struct {
	sent    []string
	failAll bool
}

func (s *fakeEmailService) SendPlacementEmail(toEmail, companyName, studentName, programme string) error {
	if s.failAll {
		return errors.New("smtp down")
	}
	s.sent = append(s.sent, toEmail)
	return nil
}

func (s *fakeEmailService) SendDecisionEmail(toEmail, studentName, decision, reason string) error {
	if s.failAll {
		return errors.New("smtp down")
	}
	s.sent = append(s.sent, toEmail)
	return nil
}

type fakeCompanyNotifier struct {
	calls []uuid.UUID
	state models.NotificationState
}

func (s *fakeCompanyNotifier) NotifyCompanyAssigned(_ context.Context, rec *models.SchoolRecord) models.NotificationState {
	s.calls = append(s.calls, rec.ID)
	if s.state == "" {
		return models.NotificationDelivered
	}
	return s.state
}

type fakeSchoolNotifier struct {
	calls []models.AssignmentStatus
}

func (s *fakeSchoolNotifier) NotifySchoolDecision(_ context.Context, rec *models.SchoolRecord, status models.AssignmentStatus, reason string) {
	s.calls = append(s.calls, status)
}
