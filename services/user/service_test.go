package user

import (
	"context"
	"errors"
	"testing"

	"transylvania/models"
)

type fakeProfileRepo struct {
	profiles map[string]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if p, ok := f.profiles[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileRepo) GetAll(ctx context.Context) ([]models.Profile, error) {
	var out []models.Profile
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	cp := *profile
	f.profiles[profile.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, profile *models.Profile) error {
	if _, ok := f.profiles[profile.ID]; !ok {
		return errors.New("profile not found")
	}
	cp := *profile
	f.profiles[profile.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	if p, ok := f.profiles[id]; ok {
		p.IsAdmin = isAdmin
	}
	return nil
}

func (f *fakeProfileRepo) Delete(ctx context.Context, id string) error {
	delete(f.profiles, id)
	return nil
}

func TestSignUpAndSignIn(t *testing.T) {
	svc := &DefaultService{Repo: newFakeProfileRepo()}
	ctx := context.Background()

	result, err := svc.SignUp(ctx, "Mavis@Hotel.example", "mavis", "batwings")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if result.Token == "" {
		t.Error("no token issued on signup")
	}
	if result.Profile.Email != "mavis@hotel.example" {
		t.Errorf("email not normalized: %q", result.Profile.Email)
	}
	if result.Profile.PasswordHash != "" {
		t.Error("password hash leaked in auth result")
	}

	if _, err := svc.SignUp(ctx, "mavis@hotel.example", "other", "password"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate signup: err = %v, want ErrEmailTaken", err)
	}

	signin, err := svc.SignIn(ctx, "mavis@hotel.example", "batwings")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if signin.Profile.ID != result.Profile.ID {
		t.Error("signin returned a different profile")
	}

	if _, err := svc.SignIn(ctx, "mavis@hotel.example", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.SignIn(ctx, "nobody@hotel.example", "batwings"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignUpRejectsWeakInput(t *testing.T) {
	svc := &DefaultService{Repo: newFakeProfileRepo()}
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "", "name", "longenough"); err == nil {
		t.Error("empty email accepted")
	}
	if _, err := svc.SignUp(ctx, "a@b.c", "", "longenough"); err == nil {
		t.Error("empty username accepted")
	}
	if _, err := svc.SignUp(ctx, "a@b.c", "name", "short"); err == nil {
		t.Error("short password accepted")
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := &DefaultService{Repo: newFakeProfileRepo()}
	ctx := context.Background()

	result, err := svc.SignUp(ctx, "drac@hotel.example", "drac", "blahblah")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	id := result.Profile.ID

	updated, err := svc.UpdateProfile(ctx, id, "count", "")
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Username != "count" {
		t.Errorf("username = %q, want count", updated.Username)
	}

	if _, err := svc.UpdateProfile(ctx, id, "", "newpassword"); err != nil {
		t.Fatalf("UpdateProfile password: %v", err)
	}
	if _, err := svc.SignIn(ctx, "drac@hotel.example", "blahblah"); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("old password still accepted after change")
	}
	if _, err := svc.SignIn(ctx, "drac@hotel.example", "newpassword"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}

	if _, err := svc.UpdateProfile(ctx, id, "", "tiny"); err == nil {
		t.Error("short replacement password accepted")
	}
	if _, err := svc.UpdateProfile(ctx, "ghost", "x", ""); err == nil {
		t.Error("update of unknown profile accepted")
	}
}
