package leave

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeLeaveRepo struct {
	requests map[string]*LeaveRequest
	people   *fakeDirectory
	sequence int
}

func newFakeLeaveRepo(people *fakeDirectory) *fakeLeaveRepo {
	return &fakeLeaveRepo{requests: make(map[string]*LeaveRequest), people: people}
}

func (r *fakeLeaveRepo) Create(_ context.Context, req *LeaveRequest) (*LeaveRequest, error) {
	clone := cloneRequest(req)
	r.sequence++
	clone.ID = fmt.Sprintf("req-%03d", r.sequence)
	r.requests[clone.ID] = clone
	return r.joined(clone), nil
}

func (r *fakeLeaveRepo) FindByID(_ context.Context, id string) (*LeaveRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	return r.joined(req), nil
}

func (r *fakeLeaveRepo) List(_ context.Context, filter Filter) ([]*LeaveRequest, error) {
	out := make([]*LeaveRequest, 0)
	for _, req := range r.requests {
		if filter.Matches(req) {
			out = append(out, r.joined(req))
		}
	}
	SortNewestFirst(out)
	return out, nil
}

func (r *fakeLeaveRepo) Update(_ context.Context, id string, mutate func(*LeaveRequest) error) (*LeaveRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	working := cloneRequest(req)
	if err := mutate(working); err != nil {
		return nil, err
	}
	r.requests[id] = working
	return r.joined(working), nil
}

func (r *fakeLeaveRepo) Delete(_ context.Context, id string, guard func(*LeaveRequest) error) error {
	req, ok := r.requests[id]
	if !ok {
		return ErrRequestNotFound
	}
	if err := guard(cloneRequest(req)); err != nil {
		return err
	}
	delete(r.requests, id)
	return nil
}

func (r *fakeLeaveRepo) joined(req *LeaveRequest) *LeaveRequest {
	clone := cloneRequest(req)
	if p, ok := r.people.people[req.RequesterID]; ok {
		clone.Requester = &RequesterSnapshot{ID: p.ID, FullName: p.FullName, Email: p.Email}
	}
	return clone
}

type fakeDirectory struct {
	people map[string]*person.Person
}

func newFakeDirectory(people ...*person.Person) *fakeDirectory {
	d := &fakeDirectory{people: make(map[string]*person.Person)}
	for _, p := range people {
		d.people[p.ID] = p
	}
	return d
}

func (d *fakeDirectory) FindByID(_ context.Context, id string) (*person.Person, error) {
	p, ok := d.people[id]
	if !ok {
		return nil, person.ErrPersonNotFound
	}
	return p, nil
}

func (d *fakeDirectory) TeamOf(_ context.Context, managerID string) ([]string, error) {
	var ids []string
	for _, p := range d.people {
		if p.ManagerID != nil && *p.ManagerID == managerID {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

type countingObserver struct {
	submitted int
	reviewed  map[Status]int
	withdrawn int
}

func (o *countingObserver) Submitted() { o.submitted++ }
func (o *countingObserver) Reviewed(s Status) {
	if o.reviewed == nil {
		o.reviewed = make(map[Status]int)
	}
	o.reviewed[s]++
}
func (o *countingObserver) Withdrawn() { o.withdrawn++ }

type fixture struct {
	svc      *Service
	repo     *fakeLeaveRepo
	clock    *stubClock
	manager  *person.Person
	other    *person.Person
	alice    *person.Person
	bob      *person.Person
	carol    *person.Person
	observer *countingObserver
}

func ptr[T any](v T) *T {
	return &v
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	manager := &person.Person{ID: "m1", FullName: "John Manager", Email: "manager@company.com", Role: person.RoleManager}
	other := &person.Person{ID: "m2", FullName: "Other Manager", Email: "other@company.com", Role: person.RoleManager}
	alice := &person.Person{ID: "e1", FullName: "Alice Employee", Email: "employee1@company.com", Role: person.RoleEmployee, ManagerID: ptr("m1")}
	bob := &person.Person{ID: "e2", FullName: "Bob Employee", Email: "employee2@company.com", Role: person.RoleEmployee, ManagerID: ptr("m1")}
	carol := &person.Person{ID: "e3", FullName: "Carol Employee", Email: "employee3@company.com", Role: person.RoleEmployee, ManagerID: ptr("m2")}

	dir := newFakeDirectory(manager, other, alice, bob, carol)
	repo := newFakeLeaveRepo(dir)
	clk := &stubClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	obs := &countingObserver{}
	svc := NewService(repo, dir, clk, nil, WithObserver(obs))

	return &fixture{svc: svc, repo: repo, clock: clk, manager: manager, other: other, alice: alice, bob: bob, carol: carol, observer: obs}
}

func (f *fixture) submit(t *testing.T, viewer *person.Person, startOffset, endOffset int) *LeaveRequest {
	t.Helper()
	today := DateOf(f.clock.now)
	created, err := f.svc.Submit(context.Background(), SubmitInput{
		Viewer:    viewer,
		StartDate: today.AddDate(0, 0, startOffset),
		EndDate:   today.AddDate(0, 0, endOffset),
		Reason:    "vacation",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	f.clock.now = f.clock.now.Add(time.Minute)
	return created
}

func TestService_Submit_Success(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	start := time.Date(2025, 3, 15, 13, 30, 0, 0, time.UTC)
	end := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

	created, err := f.svc.Submit(context.Background(), SubmitInput{
		Viewer:    f.alice,
		StartDate: start,
		EndDate:   end,
		Reason:    "  Family vacation  ",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if created.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
	if created.Status != StatusPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
	if created.RequesterID != f.alice.ID {
		t.Fatalf("expected requester to be viewer, got %s", created.RequesterID)
	}
	if !created.StartDate.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected start date truncated to calendar day, got %s", created.StartDate)
	}
	if created.TotalDays() != 3 {
		t.Fatalf("expected 3 total days, got %d", created.TotalDays())
	}
	if created.Reason != "Family vacation" {
		t.Fatalf("expected trimmed reason, got %q", created.Reason)
	}
	if !created.CreatedAt.Equal(f.clock.now) {
		t.Fatalf("expected createdAt to use clock now")
	}
	if created.ReviewedAt != nil || created.ReviewedBy != nil || created.ReviewerComment != "" {
		t.Fatalf("expected review fields to be empty: %+v", created)
	}
	if created.Requester == nil || created.Requester.FullName != "Alice Employee" {
		t.Fatalf("expected requester snapshot, got %+v", created.Requester)
	}
	if f.observer.submitted != 1 {
		t.Fatalf("expected observer to see one submission, got %d", f.observer.submitted)
	}
}

func TestService_Submit_SingleDayToday(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	today := DateOf(f.clock.now)

	created, err := f.svc.Submit(context.Background(), SubmitInput{
		Viewer:    f.bob,
		StartDate: today,
		EndDate:   today,
		Reason:    "appointment",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if created.TotalDays() != 1 {
		t.Fatalf("expected 1 total day, got %d", created.TotalDays())
	}
}

func TestService_Submit_ValidationErrors(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input SubmitInput
		want  error
		field string
	}{
		{
			name:  "end before start",
			input: SubmitInput{StartDate: today.AddDate(0, 0, 5), EndDate: today.AddDate(0, 0, 4), Reason: "x"},
			want:  ErrInvalidDateRange,
			field: "endDate",
		},
		{
			name:  "end before start wins over past start",
			input: SubmitInput{StartDate: today.AddDate(0, 0, -1), EndDate: today.AddDate(0, 0, -2), Reason: "x"},
			want:  ErrInvalidDateRange,
			field: "endDate",
		},
		{
			name:  "start yesterday",
			input: SubmitInput{StartDate: today.AddDate(0, 0, -1), EndDate: today.AddDate(0, 0, 1), Reason: "x"},
			want:  ErrPastStartDate,
			field: "startDate",
		},
		{
			name:  "blank reason",
			input: SubmitInput{StartDate: today, EndDate: today, Reason: "   "},
			want:  ErrEmptyReason,
			field: "reason",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			in := tc.input
			in.Viewer = f.alice
			_, err := f.svc.Submit(context.Background(), in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var leaveErr *Error
			if !errors.As(err, &leaveErr) || leaveErr.Field != tc.field {
				t.Fatalf("expected field %s, got %v", tc.field, err)
			}
			if len(f.repo.requests) != 0 {
				t.Fatalf("expected nothing to be stored")
			}
		})
	}
}

func TestService_Review_Approve(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	req := f.submit(t, f.alice, 1, 2)
	f.clock.now = f.clock.now.Add(time.Hour)

	reviewed, err := f.svc.Review(context.Background(), ReviewInput{
		Viewer:    f.manager,
		RequestID: req.ID,
		Decision:  StatusApproved,
		Comment:   "Enjoy",
	})
	if err != nil {
		t.Fatalf("Review returned error: %v", err)
	}

	if reviewed.Status != StatusApproved {
		t.Fatalf("expected approved status, got %s", reviewed.Status)
	}
	if reviewed.ReviewedBy == nil || *reviewed.ReviewedBy != f.manager.ID {
		t.Fatalf("expected reviewer to be recorded, got %+v", reviewed.ReviewedBy)
	}
	if reviewed.ReviewedAt == nil || !reviewed.ReviewedAt.Equal(f.clock.now) {
		t.Fatalf("expected reviewedAt to use clock now, got %+v", reviewed.ReviewedAt)
	}
	if reviewed.ReviewerComment != "Enjoy" {
		t.Fatalf("expected comment to be stored, got %q", reviewed.ReviewerComment)
	}
	if f.observer.reviewed[StatusApproved] != 1 {
		t.Fatalf("expected observer to see approval")
	}
}

func TestService_Review_SecondReviewNotPending(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	req := f.submit(t, f.alice, 1, 2)

	if _, err := f.svc.Review(context.Background(), ReviewInput{Viewer: f.manager, RequestID: req.ID, Decision: StatusRejected}); err != nil {
		t.Fatalf("Review returned error: %v", err)
	}

	for _, decision := range []Status{StatusApproved, StatusRejected, StatusPending} {
		_, err := f.svc.Review(context.Background(), ReviewInput{Viewer: f.manager, RequestID: req.ID, Decision: decision})
		if !errors.Is(err, ErrNotPending) {
			t.Fatalf("decision %s: expected ErrNotPending, got %v", decision, err)
		}
	}

	stored := f.repo.requests[req.ID]
	if stored.Status != StatusRejected {
		t.Fatalf("expected stored status to remain rejected, got %s", stored.Status)
	}
}

func TestService_Review_Errors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	aliceReq := f.submit(t, f.alice, 1, 2)
	carolReq := f.submit(t, f.carol, 1, 2)

	cases := []struct {
		name string
		in   ReviewInput
		want error
	}{
		{name: "pending decision", in: ReviewInput{Viewer: f.manager, RequestID: aliceReq.ID, Decision: StatusPending}, want: ErrInvalidDecision},
		{name: "unknown decision", in: ReviewInput{Viewer: f.manager, RequestID: aliceReq.ID, Decision: Status("Maybe")}, want: ErrInvalidDecision},
		{name: "employee reviews own", in: ReviewInput{Viewer: f.alice, RequestID: aliceReq.ID, Decision: StatusApproved}, want: ErrForbidden},
		{name: "employee reviews teammate", in: ReviewInput{Viewer: f.bob, RequestID: aliceReq.ID, Decision: StatusApproved}, want: ErrRequestNotFound},
		{name: "manager outside team", in: ReviewInput{Viewer: f.manager, RequestID: carolReq.ID, Decision: StatusApproved}, want: ErrRequestNotFound},
		{name: "missing", in: ReviewInput{Viewer: f.manager, RequestID: "missing", Decision: StatusApproved}, want: ErrRequestNotFound},
		{name: "blank id", in: ReviewInput{Viewer: f.manager, RequestID: " ", Decision: StatusApproved}, want: ErrInvalidID},
		{name: "no viewer", in: ReviewInput{RequestID: aliceReq.ID, Decision: StatusApproved}, want: ErrViewerRequired},
	}

	for _, tc := range cases {
		_, err := f.svc.Review(context.Background(), tc.in)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	if f.repo.requests[aliceReq.ID].Status != StatusPending || f.repo.requests[carolReq.ID].Status != StatusPending {
		t.Fatalf("expected failed reviews to leave requests pending")
	}
}

func TestService_Review_InvalidDecisionCarriesContext(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	req := f.submit(t, f.alice, 1, 2)

	_, err := f.svc.Review(context.Background(), ReviewInput{Viewer: f.manager, RequestID: req.ID, Decision: Status("Maybe")})
	var leaveErr *Error
	if !errors.As(err, &leaveErr) {
		t.Fatalf("expected *Error, got %T %v", err, err)
	}
	if leaveErr.Field != "status" {
		t.Fatalf("expected field status, got %q", leaveErr.Field)
	}
	if leaveErr.RequestID != req.ID {
		t.Fatalf("expected request id %s, got %q", req.ID, leaveErr.RequestID)
	}
	if !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestService_Withdraw(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	req := f.submit(t, f.alice, 1, 2)

	if err := f.svc.Withdraw(context.Background(), WithdrawInput{Viewer: f.bob, RequestID: req.ID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other employee, got %v", err)
	}
	if err := f.svc.Withdraw(context.Background(), WithdrawInput{Viewer: f.manager, RequestID: req.ID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for manager, got %v", err)
	}

	if err := f.svc.Withdraw(context.Background(), WithdrawInput{Viewer: f.alice, RequestID: req.ID}); err != nil {
		t.Fatalf("Withdraw returned error: %v", err)
	}
	if _, ok := f.repo.requests[req.ID]; ok {
		t.Fatalf("expected request to be removed")
	}
	if f.observer.withdrawn != 1 {
		t.Fatalf("expected observer to see withdrawal")
	}

	if err := f.svc.Withdraw(context.Background(), WithdrawInput{Viewer: f.alice, RequestID: req.ID}); !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound after withdrawal, got %v", err)
	}
	if _, err := f.svc.Get(context.Background(), GetInput{Viewer: f.alice, RequestID: req.ID}); !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected Get to fail after withdrawal, got %v", err)
	}
}

func TestService_Withdraw_ReviewedRequest(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	req := f.submit(t, f.alice, 1, 2)
	if _, err := f.svc.Review(context.Background(), ReviewInput{Viewer: f.manager, RequestID: req.ID, Decision: StatusApproved}); err != nil {
		t.Fatalf("Review returned error: %v", err)
	}

	err := f.svc.Withdraw(context.Background(), WithdrawInput{Viewer: f.alice, RequestID: req.ID})
	if !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
	var leaveErr *Error
	if !errors.As(err, &leaveErr) || leaveErr.RequestID != req.ID {
		t.Fatalf("expected error to carry request id, got %v", err)
	}
	if _, ok := f.repo.requests[req.ID]; !ok {
		t.Fatalf("expected reviewed request to remain")
	}
}

func TestService_Get_Scoped(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	aliceReq := f.submit(t, f.alice, 1, 2)
	managerReq := f.submit(t, f.manager, 3, 4)

	if got, err := f.svc.Get(context.Background(), GetInput{Viewer: f.alice, RequestID: aliceReq.ID}); err != nil || got.ID != aliceReq.ID {
		t.Fatalf("expected requester to see own request, got %v %v", got, err)
	}
	if _, err := f.svc.Get(context.Background(), GetInput{Viewer: f.manager, RequestID: aliceReq.ID}); err != nil {
		t.Fatalf("expected manager to see report's request: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), GetInput{Viewer: f.bob, RequestID: aliceReq.ID}); !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected teammate to get not found, got %v", err)
	}
	if _, err := f.svc.Get(context.Background(), GetInput{Viewer: f.other, RequestID: aliceReq.ID}); !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected other manager to get not found, got %v", err)
	}
	if _, err := f.svc.Get(context.Background(), GetInput{Viewer: f.manager, RequestID: managerReq.ID}); !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected manager's own request to be outside scope, got %v", err)
	}
}

func TestService_List_ScopeAndFilters(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	a1 := f.submit(t, f.alice, 1, 2)
	b1 := f.submit(t, f.bob, 1, 1)
	a2 := f.submit(t, f.alice, 5, 6)
	f.submit(t, f.carol, 1, 1)
	f.submit(t, f.manager, 1, 1)

	if _, err := f.svc.Review(context.Background(), ReviewInput{Viewer: f.manager, RequestID: a1.ID, Decision: StatusApproved}); err != nil {
		t.Fatalf("Review returned error: %v", err)
	}

	all, err := f.svc.List(context.Background(), ListInput{Viewer: f.manager})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	gotIDs := ids(all)
	wantIDs := []string{a2.ID, b1.ID, a1.ID}
	if fmt.Sprint(gotIDs) != fmt.Sprint(wantIDs) {
		t.Fatalf("expected %v newest first, got %v", wantIDs, gotIDs)
	}

	pending := StatusPending
	pendingAlice, err := f.svc.List(context.Background(), ListInput{Viewer: f.manager, Status: &pending, RequesterID: f.alice.ID})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if fmt.Sprint(ids(pendingAlice)) != fmt.Sprint([]string{a2.ID}) {
		t.Fatalf("expected only pending alice request, got %v", ids(pendingAlice))
	}

	outside, err := f.svc.List(context.Background(), ListInput{Viewer: f.manager, RequesterID: f.carol.ID})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(outside) != 0 {
		t.Fatalf("expected filters to never widen scope, got %v", ids(outside))
	}

	own, err := f.svc.List(context.Background(), ListInput{Viewer: f.bob})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if fmt.Sprint(ids(own)) != fmt.Sprint([]string{b1.ID}) {
		t.Fatalf("expected employee to see only own request, got %v", ids(own))
	}

	invalid := Status("Cancelled")
	if _, err := f.svc.List(context.Background(), ListInput{Viewer: f.bob, Status: &invalid}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestService_Team(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.submit(t, f.alice, 1, 1)
	f.submit(t, f.carol, 1, 1)

	team, err := f.svc.Team(context.Background(), f.manager)
	if err != nil {
		t.Fatalf("Team returned error: %v", err)
	}
	if len(team) != 1 || team[0].RequesterID != f.alice.ID {
		t.Fatalf("expected only direct report's request, got %v", ids(team))
	}

	if _, err := f.svc.Team(context.Background(), f.alice); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for employee, got %v", err)
	}
}

func TestService_Dashboard(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var created []*LeaveRequest
	for i := 0; i < 6; i++ {
		viewer := f.alice
		if i%2 == 1 {
			viewer = f.bob
		}
		created = append(created, f.submit(t, viewer, i, i+1))
	}
	f.submit(t, f.carol, 1, 1)

	if _, err := f.svc.Review(context.Background(), ReviewInput{Viewer: f.manager, RequestID: created[0].ID, Decision: StatusApproved}); err != nil {
		t.Fatalf("Review returned error: %v", err)
	}
	if _, err := f.svc.Review(context.Background(), ReviewInput{Viewer: f.manager, RequestID: created[1].ID, Decision: StatusRejected}); err != nil {
		t.Fatalf("Review returned error: %v", err)
	}

	snap, err := f.svc.Dashboard(context.Background(), f.manager)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if snap.TotalCount != 6 || snap.PendingCount != 4 || snap.ApprovedCount != 1 || snap.RejectedCount != 1 {
		t.Fatalf("unexpected counts: %+v", snap)
	}
	if snap.PendingCount+snap.ApprovedCount+snap.RejectedCount != snap.TotalCount {
		t.Fatalf("expected status counts to sum to total")
	}
	if len(snap.Recent) != RecentLimit {
		t.Fatalf("expected %d recent requests, got %d", RecentLimit, len(snap.Recent))
	}
	if snap.Recent[0].ID != created[5].ID {
		t.Fatalf("expected newest request first, got %s", snap.Recent[0].ID)
	}

	own, err := f.svc.Dashboard(context.Background(), f.bob)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if own.TotalCount != 3 || own.RejectedCount != 1 {
		t.Fatalf("unexpected employee counts: %+v", own)
	}

	empty, err := f.svc.Dashboard(context.Background(), f.other)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if empty.TotalCount != 0 || len(empty.Recent) != 0 {
		t.Fatalf("expected empty dashboard for manager without scoped requests, got %+v", empty)
	}
}

func TestService_OnDateAndMonth(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	today := DateOf(f.clock.now)
	req := f.submit(t, f.alice, 2, 4)
	f.submit(t, f.carol, 2, 4)

	for offset, want := range map[int]int{1: 0, 2: 1, 3: 1, 4: 1, 5: 0} {
		got, err := f.svc.OnDate(context.Background(), f.manager, today.AddDate(0, 0, offset).Add(15*time.Hour))
		if err != nil {
			t.Fatalf("OnDate returned error: %v", err)
		}
		if len(got) != want {
			t.Fatalf("offset %d: expected %d requests, got %d", offset, want, len(got))
		}
	}

	days, err := f.svc.Month(context.Background(), f.manager, 2025, time.March)
	if err != nil {
		t.Fatalf("Month returned error: %v", err)
	}
	if len(days) != 31 {
		t.Fatalf("expected 31 days in March, got %d", len(days))
	}
	covered := 0
	for _, day := range days {
		if len(day.Requests) > 0 {
			covered++
			if day.Requests[0].ID != req.ID {
				t.Fatalf("unexpected request on %s", day.Date)
			}
		}
	}
	if covered != req.TotalDays() {
		t.Fatalf("expected %d covered days, got %d", req.TotalDays(), covered)
	}

	if _, err := f.svc.Month(context.Background(), f.manager, 2025, time.Month(13)); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}

func ids(requests []*LeaveRequest) []string {
	out := make([]string, 0, len(requests))
	for _, r := range requests {
		out = append(out, r.ID)
	}
	return out
}

func cloneRequest(r *LeaveRequest) *LeaveRequest {
	if r == nil {
		return nil
	}
	clone := *r
	if r.ReviewedAt != nil {
		at := *r.ReviewedAt
		clone.ReviewedAt = &at
	}
	if r.ReviewedBy != nil {
		by := *r.ReviewedBy
		clone.ReviewedBy = &by
	}
	if r.Requester != nil {
		snap := *r.Requester
		clone.Requester = &snap
	}
	return &clone
}
