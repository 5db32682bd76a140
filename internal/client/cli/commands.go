package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/venuehub/internal/client/metrics"
	"github.com/dmitrijs2005/venuehub/internal/client/models"
	"github.com/dmitrijs2005/venuehub/internal/client/provider"
	"github.com/dmitrijs2005/venuehub/internal/client/store"
	"github.com/dmitrijs2005/venuehub/internal/common"
	"github.com/dmitrijs2005/venuehub/internal/filex"
)

// Interactive prompts; tests replace promptPassword to avoid the terminal.
var (
	promptLine     = askLine
	promptPassword = askPassword
	promptBlock    = askBlock
)

var errUsage = errors.New("usage")

// Login opens the sign-in modal, prompts for credentials and signs in. The
// modal is closed again when sign-in fails.
func (a *App) Login(ctx context.Context) error {
	a.store.SetModal(true)

	email, err := promptLine(a.reader, "Email", a.out)
	if err != nil {
		a.store.SetModal(false)
		return err
	}

	password, err := promptPassword(a.out)
	if err != nil {
		a.store.SetModal(false)
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.store.SignIn(ctx, email, password); err != nil {
		if a.store.User() == nil {
			a.store.SetModal(false)
			return err
		}
		// signed in, only the profile is missing
		fmt.Fprintln(a.out, "Signed in, but the profile could not be loaded.")
		return nil
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", a.store.User().Email)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	st := a.store.Snapshot()

	fmt.Fprintf(a.out, "hydrated: %t\nloading:  %t\nmodal:    %t\n", st.Hydrated, st.Loading, st.Modal)
	if st.User == nil {
		fmt.Fprintln(a.out, "user:     none")
		return nil
	}
	fmt.Fprintf(a.out, "user:     %s (%s)\n", st.User.Email, st.User.ID)
	if st.Profile == nil {
		fmt.Fprintln(a.out, "profile:  not loaded")
	} else {
		fmt.Fprintf(a.out, "profile:  %s\n", displayName(st.Profile))
	}
	return nil
}

// ShowProfile refreshes the profile and prints it.
func (a *App) ShowProfile(ctx context.Context) error {
	if !a.isLoggedIn() {
		return store.ErrNotAuthenticated
	}
	if err := a.store.FetchUserProfile(ctx); err != nil {
		a.logger.Warn(ctx, "profile refresh failed, showing cached copy", "error", err)
	}

	p := a.store.Profile()
	if p == nil {
		fmt.Fprintln(a.out, "No profile yet. Use 'set' to create one.")
		return nil
	}
	printField := func(name, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(a.out, "%-10s %s\n", name+":", value)
	}
	printField("name", p.Name)
	printField("username", p.Username)
	printField("email", p.Email)
	printField("bio", p.Bio)
	printField("avatar", p.AvatarURL)
	return nil
}

// Set applies "field=value" assignments to the profile. "set bio" without a
// value prompts for multiple lines.
func (a *App) Set(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: set field=value ... (fields: name, email, username, bio, avatar_url)", errUsage)
	}

	if len(args) == 1 && args[0] == "bio" {
		bio, err := promptBlock(a.reader, "Bio", a.out)
		if err != nil {
			return err
		}
		args = []string{"bio=" + bio}
	}

	update, err := parseAssignments(args)
	if err != nil {
		return err
	}
	if err := a.store.UpdateProfile(ctx, update); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}

func parseAssignments(args []string) (models.ProfileUpdate, error) {
	var u models.ProfileUpdate
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok {
			return u, fmt.Errorf("%w: expected field=value, got %q", errUsage, arg)
		}
		v := value
		switch field {
		case "name":
			u.Name = &v
		case "email":
			u.Email = &v
		case "username":
			u.Username = &v
		case "bio":
			u.Bio = &v
		case "avatar_url":
			u.AvatarURL = &v
		default:
			return u, fmt.Errorf("%w: unknown field %q", errUsage, field)
		}
	}
	return u, nil
}

// Avatar uploads the image at the given path as the new avatar.
func (a *App) Avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: avatar <path>", errUsage)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	contentType, err := filex.DetectContentType(info.Name(), f)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%s is not an image (%s)", args[0], contentType)
	}

	url, err := a.store.UploadAvatar(ctx, models.Avatar{
		Name:        info.Name(),
		ContentType: contentType,
		Size:        info.Size(),
		Body:        f,
	})
	if url != "" {
		fmt.Fprintf(a.out, "Avatar: %s\n", url)
	}
	return err
}

// Modal toggles the sign-in modal flag, or sets it with "on"/"off".
func (a *App) Modal(ctx context.Context, args []string) error {
	var visible bool
	switch {
	case len(args) == 0:
		visible = a.store.ToggleModal()
	case args[0] == "on":
		visible = true
		a.store.SetModal(true)
	case args[0] == "off":
		a.store.SetModal(false)
	default:
		return fmt.Errorf("%w: modal [on|off]", errUsage)
	}

	state := "closed"
	if visible {
		state = "open"
	}
	fmt.Fprintf(a.out, "Sign-in modal %s\n", state)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return store.ErrNotAuthenticated
	}
	if err := a.store.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	lines, err := metrics.Summary(a.gatherer)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "No provider requests yet.")
		return nil
	}
	for _, l := range lines {
		fmt.Fprintln(a.out, l)
	}
	return nil
}

// report prints err in user terms. Sentinels get a short hint.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	a.logger.Debug(context.Background(), "command failed", "error", err)

	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(a.out, "Usage:", strings.TrimPrefix(err.Error(), errUsage.Error()+": "))
	case errors.Is(err, store.ErrNotAuthenticated):
		fmt.Fprintln(a.out, "Not signed in. Use 'login' first.")
	case errors.Is(err, store.ErrEmptyUpdate):
		fmt.Fprintln(a.out, "Nothing to update.")
	case errors.Is(err, provider.ErrUnauthorized):
		fmt.Fprintln(a.out, "Not authorized:", err)
	case errors.Is(err, provider.ErrUnavailable):
		fmt.Fprintln(a.out, "Service unavailable, try again later:", err)
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
}

func displayName(p *models.Profile) string {
	switch {
	case p.Name != "" && p.Username != "":
		return fmt.Sprintf("%s (@%s)", p.Name, p.Username)
	case p.Name != "":
		return p.Name
	case p.Username != "":
		return "@" + p.Username
	default:
		return p.ID
	}
}
