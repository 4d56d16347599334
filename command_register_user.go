package blog

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Password  string `json:"password"`
	UseHashid bool
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler creates the account, its optional profile, and a first
// session token in a single transaction.
type RegisterUserHandler struct {
	repo         RepositoryManager
	tokenService TokenService
	activitySink ActivitySink
	logger       Logger
}

func NewRegisterUserHandler(repo RepositoryManager, tokenService TokenService) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:         repo,
		tokenService: tokenService,
		activitySink: noopActivitySink{},
		logger:       defLogger{},
	}
}

func (h *RegisterUserHandler) WithActivitySink(sink ActivitySink) *RegisterUserHandler {
	h.activitySink = normalizeActivitySink(sink)
	return h
}

func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*AuthPayload, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*AuthPayload, error) {
	if event.Phone != "" {
		if err := validatePhone(event.Phone); err != nil {
			return nil, err
		}
	}

	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if taken, err := h.repo.Users().ExistsByEmailTx(ctx, tx, event.Email); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email availability")
		} else if taken {
			return ErrAlreadyExists.Clone().WithMetadata(map[string]any{
				"field": "email",
			})
		}

		username := getUsername(event.Username, event.Email)
		if taken, err := h.repo.Users().ExistsByUsernameTx(ctx, tx, username); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check username availability")
		} else if taken {
			return ErrAlreadyExists.Clone().WithMetadata(map[string]any{
				"field": "username",
			})
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.PasswordHash = hash
		user.Email = event.Email
		user.Username = username
		user.Role = UserRole(event.Role)
		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return err
		}

		if event.FirstName != "" || event.LastName != "" || event.Phone != "" {
			profile := &Profile{
				UserID:    user.ID,
				FirstName: event.FirstName,
				LastName:  event.LastName,
				Phone:     event.Phone,
			}
			if _, err := h.repo.Profiles().CreateTx(ctx, tx, profile); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user profile")
			}
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	token, err := h.tokenService.Issue(user.ID.String())
	if err != nil {
		return nil, err
	}

	h.emitRegistration(ctx, user)

	return &AuthPayload{
		Token: token,
		User:  NewIdentityFromUser(user),
	}, nil
}

func (h *RegisterUserHandler) emitRegistration(ctx context.Context, user *User) {
	sink := normalizeActivitySink(h.activitySink)
	err := sink.Record(ctx, ActivityEvent{
		EventType:  ActivityEventRegistration,
		Actor:      ActorRef{ID: user.ID.String(), Type: "user"},
		UserID:     user.ID.String(),
		Metadata:   map[string]any{"username": user.Username},
		OccurredAt: time.Now(),
	})
	if err != nil {
		h.logger.Warn("activity sink record error: %v", err)
	}
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}

func validatePhone(phone string) error {
	parsed, err := phonenumbers.Parse(phone, "US")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "could not parse phone number").
			WithMetadata(map[string]any{"phone": phone})
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return goerrors.New("invalid phone number", goerrors.CategoryValidation).
			WithMetadata(map[string]any{"phone": phone})
	}

	return nil
}
