package complaintstore_test

import (
	"testing"

	complaintstore "github.com/am1456/hostelhub/internal/app/store/complaints"
	"github.com/am1456/hostelhub/internal/domain/models"
	"github.com/am1456/hostelhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := complaintstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hostel := fx.CreateHostel(ctx, "Aravali", "AH1")
	room := fx.CreateRoom(ctx, hostel.ID, "101", 2)
	student := fx.CreateStudent(ctx, "Asha Rao", "2022UGCS001", hostel.ID, room.ID)

	created, err := store.Create(ctx, models.Complaint{
		Title:        "Leaking tap",
		Description:  "The bathroom tap drips all night",
		StudentID:    student.ID,
		HostelID:     hostel.ID,
		RoomID:       room.ID,
		Mobile:       student.Mobile,
		AssignedRole: models.SkillPlumber,
		// Caller-supplied statuses must be overridden
		StatusByStudent: models.StudentStatusResolved,
		StatusByStaff:   models.StaffStatusSettled,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.StatusByStudent != models.StudentStatusPending {
		t.Errorf("StatusByStudent: got %q, want PENDING", created.StatusByStudent)
	}
	if created.StatusByStaff != models.StaffStatusUnsettled {
		t.Errorf("StatusByStaff: got %q, want UNSETTLED", created.StatusByStaff)
	}
	if created.ResolvedAt != nil {
		t.Error("expected ResolvedAt to be nil at creation")
	}
}

func TestStore_ListByStudent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := complaintstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hostel := fx.CreateHostel(ctx, "Aravali", "AH1")
	room := fx.CreateRoom(ctx, hostel.ID, "101", 2)
	student := fx.CreateStudent(ctx, "Asha Rao", "2022UGCS001", hostel.ID, room.ID)
	other := fx.CreateStudent(ctx, "Vikram Iyer", "2022UGCS002", hostel.ID, room.ID)

	fx.CreateComplaint(ctx, student, "Leaking tap", models.SkillPlumber)
	fx.CreateComplaint(ctx, student, "Broken light", models.SkillElectrician)
	fx.CreateComplaint(ctx, other, "Slow wifi", models.SkillNetwork)

	all, err := store.ListByStudent(ctx, student.ID, complaintstore.StudentFilter{})
	if err != nil {
		t.Fatalf("ListByStudent failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 complaints, got %d", len(all))
	}

	plumbing, err := store.ListByStudent(ctx, student.ID, complaintstore.StudentFilter{AssignedRole: models.SkillPlumber})
	if err != nil {
		t.Fatalf("ListByStudent with role filter failed: %v", err)
	}
	if len(plumbing) != 1 || plumbing[0].Title != "Leaking tap" {
		t.Errorf("role filter: got %d complaints", len(plumbing))
	}
}

func TestStore_Resolve_OwnerOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := complaintstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hostel := fx.CreateHostel(ctx, "Aravali", "AH1")
	room := fx.CreateRoom(ctx, hostel.ID, "101", 2)
	student := fx.CreateStudent(ctx, "Asha Rao", "2022UGCS001", hostel.ID, room.ID)
	complaint := fx.CreateComplaint(ctx, student, "Leaking tap", models.SkillPlumber)

	// Another student cannot resolve it
	if _, err := store.Resolve(ctx, complaint.ID, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments for non-owner, got %v", err)
	}

	resolved, err := store.Resolve(ctx, complaint.ID, student.ID)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.StatusByStudent != models.StudentStatusResolved {
		t.Errorf("StatusByStudent: got %q", resolved.StatusByStudent)
	}
	if resolved.ResolvedAt == nil {
		t.Error("expected ResolvedAt to be set")
	}
	// Staff axis untouched
	if resolved.StatusByStaff != models.StaffStatusUnsettled {
		t.Errorf("StatusByStaff changed: got %q", resolved.StatusByStaff)
	}
}

func TestStore_Delete_OwnerOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := complaintstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hostel := fx.CreateHostel(ctx, "Aravali", "AH1")
	room := fx.CreateRoom(ctx, hostel.ID, "101", 2)
	student := fx.CreateStudent(ctx, "Asha Rao", "2022UGCS001", hostel.ID, room.ID)
	complaint := fx.CreateComplaint(ctx, student, "Leaking tap", models.SkillPlumber)

	deleted, err := store.Delete(ctx, complaint.ID, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("non-owner delete: got %d, want 0", deleted)
	}

	deleted, err = store.Delete(ctx, complaint.ID, student.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("owner delete: got %d, want 1", deleted)
	}
}

func TestStore_TasksForStaff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := complaintstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hostel := fx.CreateHostel(ctx, "Aravali", "AH1")
	otherHostel := fx.CreateHostel(ctx, "Nilgiri", "NG2")
	room := fx.CreateRoom(ctx, hostel.ID, "101", 2)
	otherRoom := fx.CreateRoom(ctx, otherHostel.ID, "101", 2)
	student := fx.CreateStudent(ctx, "Asha Rao", "2022UGCS001", hostel.ID, room.ID)
	outsider := fx.CreateStudent(ctx, "Vikram Iyer", "2022UGCS002", otherHostel.ID, otherRoom.ID)

	first := fx.CreateComplaint(ctx, student, "Leaking tap", models.SkillPlumber)
	second := fx.CreateComplaint(ctx, student, "Blocked drain", models.SkillPlumber)
	fx.CreateComplaint(ctx, student, "Broken light", models.SkillElectrician) // skill mismatch
	fx.CreateComplaint(ctx, outsider, "Leaking tap", models.SkillPlumber)    // hostel mismatch
	settled := fx.CreateComplaint(ctx, student, "Old leak", models.SkillPlumber)
	if _, err := store.Settle(ctx, settled.ID, hostel.ID, []string{models.SkillPlumber}); err != nil {
		t.Fatalf("Settle setup failed: %v", err)
	}
	resolved := fx.CreateComplaint(ctx, student, "Fixed myself", models.SkillPlumber)
	if _, err := store.Resolve(ctx, resolved.ID, student.ID); err != nil {
		t.Fatalf("Resolve setup failed: %v", err)
	}

	tasks, err := store.TasksForStaff(ctx, hostel.ID, []string{models.SkillPlumber})
	if err != nil {
		t.Fatalf("TasksForStaff failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 open tasks, got %d", len(tasks))
	}
	// Oldest first; both open complaints present
	got := map[primitive.ObjectID]bool{tasks[0].ID: true, tasks[1].ID: true}
	if !got[first.ID] || !got[second.ID] {
		t.Error("expected both open complaints in the queue")
	}
	if tasks[0].CreatedAt.After(tasks[1].CreatedAt) {
		t.Error("expected tasks sorted oldest first")
	}
	// Joined display fields
	if tasks[0].RoomNumber != "101" {
		t.Errorf("RoomNumber: got %q", tasks[0].RoomNumber)
	}
	if tasks[0].StudentName != "Asha Rao" {
		t.Errorf("StudentName: got %q", tasks[0].StudentName)
	}
}

func TestStore_TasksForStaff_NoSkills(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := complaintstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tasks, err := store.TasksForStaff(ctx, primitive.NewObjectID(), nil)
	if err != nil {
		t.Fatalf("TasksForStaff failed: %v", err)
	}
	if tasks != nil {
		t.Errorf("expected nil tasks for empty skill set, got %d", len(tasks))
	}
}

func TestStore_Settle_ScopeChecks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := complaintstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hostel := fx.CreateHostel(ctx, "Aravali", "AH1")
	room := fx.CreateRoom(ctx, hostel.ID, "101", 2)
	student := fx.CreateStudent(ctx, "Asha Rao", "2022UGCS001", hostel.ID, room.ID)
	complaint := fx.CreateComplaint(ctx, student, "Leaking tap", models.SkillPlumber)

	// Wrong hostel
	if _, err := store.Settle(ctx, complaint.ID, primitive.NewObjectID(), []string{models.SkillPlumber}); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments for wrong hostel, got %v", err)
	}
	// Wrong skill
	if _, err := store.Settle(ctx, complaint.ID, hostel.ID, []string{models.SkillElectrician}); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments for wrong skill, got %v", err)
	}

	settled, err := store.Settle(ctx, complaint.ID, hostel.ID, []string{models.SkillPlumber, models.SkillCleaner})
	if err != nil {
		t.Fatalf("Settle failed: %v", err)
	}
	if settled.StatusByStaff != models.StaffStatusSettled {
		t.Errorf("StatusByStaff: got %q", settled.StatusByStaff)
	}
	// Student axis untouched
	if settled.StatusByStudent != models.StudentStatusPending {
		t.Errorf("StatusByStudent changed: got %q", settled.StatusByStudent)
	}
}
