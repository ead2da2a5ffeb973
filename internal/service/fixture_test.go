package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/naconsulta/internal/auth"
	appdb "github.com/Leganyst/naconsulta/internal/db"
	"github.com/Leganyst/naconsulta/internal/model"
)

const testPassword = "s3cret-pass"

// fixture is a seeded in-memory store:
//
//	alice: admin, phone t4, no appointments
//	bob:   patient, phone t3, one appointment with doctor ana
//	t1, t2: unowned phones
type fixture struct {
	db     *gorm.DB
	hasher auth.Hasher
	tokens *auth.Tokens

	users        *UserService
	auth         *AuthService
	addresses    *AddressService
	appointments *AppointmentService

	admin, doctor, patient model.Role
	alice, bob             model.User
	t1, t2, t3, t4         model.Telephone
	ana, bruno             model.Doctor
	centro, historico, sul model.Address
	consult                model.Appointment
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := appdb.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// single connection: the in-memory database lives as long as it does
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		db:     newTestDB(t),
		hasher: auth.NewBcryptHasher(bcrypt.MinCost),
		tokens: auth.NewTokens("test-secret-0123456789", time.Hour),
	}
	log := zerolog.Nop()
	f.auth = NewAuthService(f.db, f.hasher, f.tokens, log)
	f.users = NewUserService(f.db, f.hasher, f.auth, log)
	f.addresses = NewAddressService(f.db, log)
	f.appointments = NewAppointmentService(f.db, log)

	hash, err := f.hasher.Hash(testPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	f.admin = model.Role{Authority: model.RoleAdmin}
	f.doctor = model.Role{Authority: model.RoleDoctor}
	f.patient = model.Role{Authority: model.RolePatient}
	for _, r := range []*model.Role{&f.admin, &f.doctor, &f.patient} {
		mustCreate(t, f.db, r)
	}

	f.alice = model.User{FirstName: "Alice", LastName: "Souza", Email: "alice@example.com", Password: hash, Roles: []model.Role{f.admin}}
	f.bob = model.User{FirstName: "Bob", LastName: "Silva", Gender: "M", Email: "bob@example.com", Password: hash, Roles: []model.Role{f.patient}}
	mustCreate(t, f.db, &f.alice)
	mustCreate(t, f.db, &f.bob)

	f.t1 = model.Telephone{Number: "11 1111-1111"}
	f.t2 = model.Telephone{Number: "11 2222-2222"}
	f.t3 = model.Telephone{Number: "11 3333-3333", UserID: &f.bob.ID}
	f.t4 = model.Telephone{Number: "11 4444-4444", UserID: &f.alice.ID}
	for _, p := range []*model.Telephone{&f.t1, &f.t2, &f.t3, &f.t4} {
		mustCreate(t, f.db, p)
	}

	f.ana = model.Doctor{Name: "Ana Costa", Registration: "CRM-1001", Specialties: datatypes.JSONSlice[string]{"cardiology"}}
	f.bruno = model.Doctor{Name: "Bruno Lima", Registration: "CRM-1002"}
	mustCreate(t, f.db, &f.ana)
	mustCreate(t, f.db, &f.bruno)

	f.centro = model.Address{Street: "Rua A", Neighborhood: "Centro", City: "Recife", Doctors: []model.Doctor{f.ana, f.bruno}}
	f.historico = model.Address{Street: "Rua B", Neighborhood: "Centro Histórico", City: "Olinda", Doctors: []model.Doctor{f.bruno}}
	f.sul = model.Address{Street: "Rua C", Neighborhood: "Boa Viagem", City: "Recife"}
	for _, a := range []*model.Address{&f.centro, &f.historico, &f.sul} {
		mustCreate(t, f.db, a)
	}

	f.consult = model.Appointment{
		PatientID: f.bob.ID,
		DoctorID:  f.ana.ID,
		Moment:    time.Date(2025, 5, 20, 14, 0, 0, 0, time.UTC),
		Symptom:   "headache",
	}
	mustCreate(t, f.db, &f.consult)

	return f
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed %T: %v", v, err)
	}
}

func callerOf(u model.User) auth.Caller {
	return auth.Caller{UserID: u.ID, Email: u.Email, Roles: u.Authorities()}
}

// countStoreAccess counts every statement GORM runs from now on.
func countStoreAccess(t *testing.T, db *gorm.DB) *atomic.Int64 {
	t.Helper()

	var n atomic.Int64
	inc := func(*gorm.DB) { n.Add(1) }
	name := "test:count_store_access"

	cb := db.Callback()
	for _, err := range []error{
		cb.Query().Before("gorm:query").Register(name, inc),
		cb.Create().Before("gorm:create").Register(name, inc),
		cb.Update().Before("gorm:update").Register(name, inc),
		cb.Delete().Before("gorm:delete").Register(name, inc),
		cb.Row().Before("gorm:row").Register(name, inc),
		cb.Raw().Before("gorm:raw").Register(name, inc),
	} {
		if err != nil {
			t.Fatalf("register callback: %v", err)
		}
	}
	return &n
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func phoneOwner(t *testing.T, db *gorm.DB, id int64) *int64 {
	t.Helper()
	var p model.Telephone
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		t.Fatalf("load phone %d: %v", id, err)
	}
	return p.UserID
}

func storedRoleIDs(t *testing.T, db *gorm.DB, userID int64) []int64 {
	t.Helper()
	var ids []int64
	if err := db.Table("user_roles").Where("user_id = ?", userID).Order("role_id").Pluck("role_id", &ids).Error; err != nil {
		t.Fatalf("load user_roles: %v", err)
	}
	return ids
}
