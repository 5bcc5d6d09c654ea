// Package mock is an in-memory repository implementation for tests.
package mock

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/buildfastwithai/jd-qna/pkg/models"
	"github.com/buildfastwithai/jd-qna/pkg/repository"
)

// Store keeps every entity in maps guarded by one mutex. Setting Err makes
// every call fail with it, for error-path tests.
type Store struct {
	mu sync.Mutex

	Err error

	records   map[int64]*models.SkillRecord
	skills    map[int64]*models.Skill
	questions map[int64]*models.Question
	regens    map[int64]*models.Regeneration
	feedbacks map[int64]*models.Feedback
	globals   map[int64]*models.GlobalFeedback
	templates map[string]*models.PromptTemplate
	schemas   map[string]*models.ResponseSchema

	nextID int64
}

var (
	_ repository.RecordRepo       = (*Store)(nil)
	_ repository.SkillRepo        = (*Store)(nil)
	_ repository.QuestionRepo     = (*Store)(nil)
	_ repository.RegenerationRepo = (*Store)(nil)
	_ repository.FeedbackRepo     = (*Store)(nil)
	_ repository.AnalyticsRepo    = (*Store)(nil)
	_ repository.TemplateRepo     = (*Store)(nil)
	_ repository.SchemaRepo       = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		records:   make(map[int64]*models.SkillRecord),
		skills:    make(map[int64]*models.Skill),
		questions: make(map[int64]*models.Question),
		regens:    make(map[int64]*models.Regeneration),
		feedbacks: make(map[int64]*models.Feedback),
		globals:   make(map[int64]*models.GlobalFeedback),
		templates: make(map[string]*models.PromptTemplate),
		schemas:   make(map[string]*models.ResponseSchema),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func now() int64 { return time.Now().UnixMilli() }

// ----- RecordRepo -----

func (s *Store) CreateRecord(_ context.Context, r *models.SkillRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	cp := *r
	cp.ID = s.id()
	cp.Created = now()
	cp.Updated = cp.Created
	s.records[cp.ID] = &cp
	return cp.ID, nil
}

func (s *Store) GetRecord(_ context.Context, id int64) (*models.SkillRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	r, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("record %d not found", id)
	}
	cp := *r
	return &cp, nil
}

func (s *Store) ListRecords(_ context.Context, limit, offset int) ([]models.SkillRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.SkillRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return []models.SkillRecord{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CountRecords(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.records)), nil
}

func (s *Store) DeleteRecord(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("record %d not found", id)
	}
	delete(s.records, id)
	for sid, sk := range s.skills {
		if sk.RecordID == id {
			delete(s.skills, sid)
		}
	}
	for qid, q := range s.questions {
		if q.RecordID == id {
			delete(s.questions, qid)
		}
	}
	for rid, r := range s.regens {
		if r.RecordID == id {
			delete(s.regens, rid)
		}
	}
	delete(s.globals, id)
	return nil
}

// ----- SkillRepo -----

func (s *Store) CreateSkill(_ context.Context, sk *models.Skill) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	cp := *sk
	cp.ID = s.id()
	cp.Created = now()
	cp.Updated = cp.Created
	s.skills[cp.ID] = &cp
	return cp.ID, nil
}

func (s *Store) GetSkill(_ context.Context, id int64) (*models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	sk, ok := s.skills[id]
	if !ok {
		return nil, fmt.Errorf("skill %d not found", id)
	}
	cp := *sk
	return &cp, nil
}

func (s *Store) ListSkillsByRecord(_ context.Context, recordID int64) ([]models.Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.Skill{}
	for _, sk := range s.skills {
		if sk.RecordID == recordID {
			out = append(out, *sk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

func (s *Store) UpdateSkill(_ context.Context, sk *models.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	old, ok := s.skills[sk.ID]
	if !ok {
		return fmt.Errorf("skill %d not found", sk.ID)
	}
	cp := *sk
	cp.Created = old.Created
	cp.Updated = now()
	s.skills[cp.ID] = &cp
	return nil
}

func (s *Store) DeleteSkill(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.skills[id]; !ok {
		return fmt.Errorf("skill %d not found", id)
	}
	delete(s.skills, id)
	for qid, q := range s.questions {
		if q.SkillID == id {
			delete(s.questions, qid)
		}
	}
	for fid, f := range s.feedbacks {
		if f.SkillID == id {
			delete(s.feedbacks, fid)
		}
	}
	return nil
}

func (s *Store) SetSkillPool(_ context.Context, id, poolID int64, poolName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	sk, ok := s.skills[id]
	if !ok {
		return fmt.Errorf("skill %d not found", id)
	}
	sk.FloPoolID = &poolID
	sk.FloPoolName = poolName
	sk.Updated = now()
	return nil
}

// ----- QuestionRepo -----

func (s *Store) CreateQuestion(_ context.Context, q *models.Question) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return s.createQuestionLocked(q), nil
}

func (s *Store) createQuestionLocked(q *models.Question) int64 {
	cp := *q
	cp.ID = s.id()
	if cp.Liked == "" {
		cp.Liked = models.LikedStatusNone
	}
	cp.Created = now()
	cp.Updated = cp.Created
	s.questions[cp.ID] = &cp
	return cp.ID
}

func (s *Store) GetQuestion(_ context.Context, id int64) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	q, ok := s.questions[id]
	if !ok {
		return nil, fmt.Errorf("question %d not found", id)
	}
	cp := *q
	return &cp, nil
}

func (s *Store) ListQuestionsByRecord(_ context.Context, recordID int64, includeDeleted bool) ([]models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.Question{}
	for _, q := range s.questions {
		if q.RecordID == recordID && (includeDeleted || !q.Deleted) {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListQuestionsBySkill(_ context.Context, skillID int64, includeDeleted bool) ([]models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.Question{}
	for _, q := range s.questions {
		if q.SkillID == skillID && (includeDeleted || !q.Deleted) {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateQuestion(_ context.Context, id int64, content, feedback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	q, ok := s.questions[id]
	if !ok {
		return fmt.Errorf("question %d not found", id)
	}
	q.Content = content
	q.Feedback = feedback
	q.Updated = now()
	return nil
}

func (s *Store) SetLiked(_ context.Context, id int64, liked string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if !models.ValidLikedStatus(liked) {
		return fmt.Errorf("invalid liked status %q", liked)
	}
	q, ok := s.questions[id]
	if !ok {
		return fmt.Errorf("question %d not found", id)
	}
	q.Liked = liked
	q.Updated = now()
	return nil
}

func (s *Store) SoftDeleteQuestion(_ context.Context, id int64, deletionFeedback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	q, ok := s.questions[id]
	if !ok {
		return fmt.Errorf("question %d not found", id)
	}
	q.Deleted = true
	q.DeletionFeedback = deletionFeedback
	q.Updated = now()
	return nil
}

func (s *Store) SetFloIDs(_ context.Context, id, floQuestionID, floPoolID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	q, ok := s.questions[id]
	if !ok {
		return fmt.Errorf("question %d not found", id)
	}
	q.FloQuestionID = &floQuestionID
	q.FloPoolID = &floPoolID
	q.Updated = now()
	return nil
}

// ----- RegenerationRepo -----

func (s *Store) CreateRegeneration(_ context.Context, q *models.Question, r *models.Regeneration) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, 0, s.Err
	}
	qid := s.createQuestionLocked(q)

	for _, old := range s.regens {
		if old.OriginalQuestionID == r.OriginalQuestionID && old.NewQuestionID == qid {
			cp := *r
			cp.ID = old.ID
			cp.NewQuestionID = qid
			cp.Created = old.Created
			s.regens[old.ID] = &cp
			return qid, old.ID, nil
		}
	}

	cp := *r
	cp.ID = s.id()
	cp.NewQuestionID = qid
	if cp.Liked == "" {
		cp.Liked = models.LikedStatusNone
	}
	cp.Created = now()
	s.regens[cp.ID] = &cp
	return qid, cp.ID, nil
}

func (s *Store) GetRegeneration(_ context.Context, id int64) (*models.Regeneration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	r, ok := s.regens[id]
	if !ok {
		return nil, fmt.Errorf("regeneration %d not found", id)
	}
	cp := *r
	return &cp, nil
}

func (s *Store) ListRegenerationsByRecord(_ context.Context, recordID int64) ([]models.Regeneration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.Regeneration{}
	for _, r := range s.regens {
		if r.RecordID == recordID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateRegenerationFeedback(_ context.Context, id int64, liked, userFeedback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	r, ok := s.regens[id]
	if !ok {
		return fmt.Errorf("regeneration %d not found", id)
	}
	if liked != "" {
		if !models.ValidLikedStatus(liked) {
			return fmt.Errorf("invalid liked status %q", liked)
		}
		r.Liked = liked
	}
	if userFeedback != "" {
		r.UserFeedback = userFeedback
	}
	return nil
}

// ----- FeedbackRepo -----

func (s *Store) CreateFeedback(_ context.Context, f *models.Feedback) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	cp := *f
	cp.ID = s.id()
	cp.Created = now()
	s.feedbacks[cp.ID] = &cp
	return cp.ID, nil
}

func (s *Store) ListFeedbackBySkill(_ context.Context, skillID int64) ([]models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.Feedback{}
	for _, f := range s.feedbacks {
		if f.SkillID == skillID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpsertGlobalFeedback(_ context.Context, recordID int64, content string) (*models.GlobalFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	g, ok := s.globals[recordID]
	if ok {
		g.Content = content
		g.Updated = now()
	} else {
		g = &models.GlobalFeedback{ID: s.id(), RecordID: recordID, Content: content, Created: now(), Updated: now()}
		s.globals[recordID] = g
	}
	cp := *g
	return &cp, nil
}

func (s *Store) GetGlobalFeedback(_ context.Context, recordID int64) (*models.GlobalFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	g, ok := s.globals[recordID]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

// ----- AnalyticsRepo -----

func (s *Store) RegenerationStats(_ context.Context, f repository.AnalyticsFilter) (*models.RegenerationStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	matches := func(recordID, skillID int64) bool {
		if f.RecordID != nil && recordID != *f.RecordID {
			return false
		}
		if f.SkillID != nil && skillID != *f.SkillID {
			return false
		}
		return true
	}

	stats := &models.RegenerationStats{
		PerSkill:     []models.SkillRegenCount{},
		Trend:        []models.DayCount{},
		Reasons:      []models.ReasonCount{},
		Satisfaction: models.SatisfactionCounts{},
	}

	perSkill := map[int64]int64{}
	reasons := map[string]int64{}
	for _, r := range s.regens {
		if !matches(r.RecordID, r.SkillID) {
			continue
		}
		stats.TotalRegenerations++
		perSkill[r.SkillID]++
		if r.Reason != "" {
			reasons[r.Reason]++
		}
		switch r.Liked {
		case models.LikedStatusLiked:
			stats.Satisfaction.Liked++
		case models.LikedStatusDisliked:
			stats.Satisfaction.Disliked++
		default:
			stats.Satisfaction.None++
		}
	}

	for _, q := range s.questions {
		if matches(q.RecordID, q.SkillID) {
			stats.TotalQuestions++
		}
	}

	for sid, n := range perSkill {
		name := ""
		if sk, ok := s.skills[sid]; ok {
			name = sk.Name
		}
		stats.PerSkill = append(stats.PerSkill, models.SkillRegenCount{SkillID: sid, SkillName: name, Count: n})
	}
	sort.Slice(stats.PerSkill, func(i, j int) bool { return stats.PerSkill[i].Count > stats.PerSkill[j].Count })
	topN := f.TopN
	if topN <= 0 {
		topN = 10
	}
	if len(stats.PerSkill) > topN {
		stats.PerSkill = stats.PerSkill[:topN]
	}

	for reason, n := range reasons {
		stats.Reasons = append(stats.Reasons, models.ReasonCount{Reason: reason, Count: n})
	}
	sort.Slice(stats.Reasons, func(i, j int) bool { return stats.Reasons[i].Count > stats.Reasons[j].Count })

	if stats.TotalQuestions > 0 {
		avg := float64(stats.TotalRegenerations) / float64(stats.TotalQuestions)
		stats.AveragePerQuestion = math.Round(avg*100) / 100
	}
	return stats, nil
}

// ----- TemplateRepo / SchemaRepo -----

// AddTemplate seeds a template for tests.
func (s *Store) AddTemplate(t *models.PromptTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.Name+":"+t.Version] = t
}

func (s *Store) GetTemplate(_ context.Context, name, version string) (*models.PromptTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	t, ok := s.templates[name+":"+version]
	if !ok {
		return nil, fmt.Errorf("template %s:%s not found", name, version)
	}
	return t, nil
}

func (s *Store) CreateSchema(_ context.Context, version, description, schemaJSON string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	sc := &models.ResponseSchema{ID: s.id(), Version: version, Description: description, SchemaJSON: schemaJSON, Created: now(), Updated: now()}
	s.schemas[version] = sc
	return sc.ID, nil
}

func (s *Store) GetSchemaByVersion(_ context.Context, version string) (*models.ResponseSchema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	sc, ok := s.schemas[version]
	if !ok {
		return nil, fmt.Errorf("schema %s not found", version)
	}
	cp := *sc
	return &cp, nil
}

func (s *Store) ListSchemas(_ context.Context) ([]models.ResponseSchema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.ResponseSchema, 0, len(s.schemas))
	for _, sc := range s.schemas {
		out = append(out, *sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
