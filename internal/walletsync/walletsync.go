package walletsync

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/core-coin/walletsync/internal/metrics"
	"github.com/core-coin/walletsync/internal/models"
	"github.com/core-coin/walletsync/pkg/logger"
	"github.com/core-coin/walletsync/pkg/validation"
)

const (
	MessageSynced        = "Wallet synced successfully"
	MessageAlreadyExists = "Wallet already exists"
)

// WalletSync provisions the local user and wallet record of an authenticated subject.
// It holds no mutable state; duplicate concurrent requests are reconciled by the
// store's unique indexes.
type WalletSync struct {
	logger *logger.Logger

	repo     models.Repository
	verifier models.TokenVerifier
	provider models.IdentityProvider

	// optional
	cache       models.AddressCache
	notificator models.NotificationService

	placeholderDomain string
}

// Option configures optional collaborators.
type Option func(*WalletSync)

// WithAddressCache enables the subject -> address read-through cache.
func WithAddressCache(cache models.AddressCache) Option {
	return func(w *WalletSync) { w.cache = cache }
}

// WithNotificator enables provisioning notifications.
func WithNotificator(n models.NotificationService) Option {
	return func(w *WalletSync) { w.notificator = n }
}

// NewWalletSync creates a new WalletSync instance
func NewWalletSync(
	repo models.Repository,
	verifier models.TokenVerifier,
	provider models.IdentityProvider,
	logger *logger.Logger,
	placeholderDomain string,
	opts ...Option,
) *WalletSync {
	w := &WalletSync{
		logger:            logger,
		repo:              repo,
		verifier:          verifier,
		provider:          provider,
		placeholderDomain: placeholderDomain,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

var _ models.WalletSyncer = (*WalletSync)(nil)

// PlaceholderEmail is the deterministic email stored for subjects whose credential has none.
func PlaceholderEmail(subjectID, domain string) string {
	return fmt.Sprintf("%s@%s", subjectID, domain)
}

func (w *WalletSync) Healthy(ctx context.Context) error {
	return w.repo.Ping(ctx)
}

// SyncWallet verifies the credential, resolves the user and reconciles the
// wallet with the identity provider.
func (w *WalletSync) SyncWallet(ctx context.Context, credential string) (*models.SyncResult, error) {
	start := time.Now()
	outcome := metrics.OutcomeError
	defer func() {
		metrics.SyncTotal.WithLabelValues(outcome).Inc()
		metrics.SyncDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	if credential == "" {
		outcome = metrics.OutcomeUnauthorized
		return nil, models.ErrMissingCredential
	}

	claim, err := w.verifier.Verify(ctx, credential)
	if err != nil {
		outcome = metrics.OutcomeUnauthorized
		w.logger.Debugw("Credential rejected", "error", err)
		if !errors.Is(err, models.ErrUnauthorized) {
			err = fmt.Errorf("%w: %v", models.ErrInvalidCredential, err)
		}
		return nil, err
	}
	subjectID := claim.SubjectID
	log := w.logger.With("subject_id", subjectID)

	if address := w.cachedAddress(ctx, subjectID); address != "" {
		outcome = metrics.OutcomeCached
		return existing(address), nil
	}

	user, err := w.resolveUser(ctx, claim)
	if err != nil {
		log.Errorw("Failed to resolve user", "error", err)
		return nil, err
	}

	if user.Wallet != nil {
		outcome = metrics.OutcomeExisting
		w.remember(ctx, subjectID, user.Wallet.Address)
		return existing(user.Wallet.Address), nil
	}

	accounts, err := w.provider.FetchLinkedAccounts(ctx, subjectID)
	if err != nil {
		err = models.NewStageError(models.StageFetchLinkedAccounts, subjectID, err)
		log.Errorw("Failed to fetch linked accounts", "error", err)
		return nil, err
	}

	embedded, found := models.FindEmbeddedWallet(accounts)
	if !found {
		outcome = metrics.OutcomeNoWallet
		log.Infow("No embedded wallet yet", "linked_accounts", len(accounts))
		return nil, models.ErrNoEmbeddedWallet
	}

	address, err := validation.ValidateAndNormalizeAddress(embedded.ChainType, embedded.Address)
	if err != nil {
		err = models.NewStageError(models.StageValidateAddress, subjectID, err)
		log.Errorw("Identity provider returned an invalid address", "error", err, "chain_type", embedded.ChainType)
		return nil, err
	}

	wallet, created, err := w.createWallet(ctx, user, address, embedded.ChainType)
	if err != nil {
		log.Errorw("Failed to create wallet", "error", err, "user_id", user.ID)
		return nil, err
	}
	w.remember(ctx, subjectID, wallet.Address)

	if !created {
		outcome = metrics.OutcomeRaceLost
		log.Infow("Wallet was created by a concurrent request", "address", wallet.Address)
		return existing(wallet.Address), nil
	}

	outcome = metrics.OutcomeSynced
	log.Infow("Wallet synced", "user_id", user.ID, "address", wallet.Address, "chain_type", wallet.ChainType)
	w.notify(subjectID, user.ID, wallet)

	return &models.SyncResult{Synced: true, Message: MessageSynced, Address: wallet.Address}, nil
}

// resolveUser returns the subject's user with its wallet preloaded, creating the
// user if needed. A lost creation race is resolved by reading the winner's row.
func (w *WalletSync) resolveUser(ctx context.Context, claim *models.IdentityClaim) (*models.User, error) {
	user, err := w.repo.FindUserBySubject(ctx, claim.SubjectID, true)
	if err != nil {
		return nil, models.NewStageError(models.StageResolveUser, claim.SubjectID, err)
	}
	if user != nil {
		return user, nil
	}

	email := claim.Email
	if email == "" {
		email = PlaceholderEmail(claim.SubjectID, w.placeholderDomain)
	}

	// The insert is a single-row atomic write; let it finish even if the caller has gone.
	user, err = w.repo.CreateUser(context.WithoutCancel(ctx), claim.SubjectID, email)
	if err == nil {
		w.logger.Infow("User created", "subject_id", claim.SubjectID, "user_id", user.ID)
		return user, nil
	}
	if !errors.Is(err, models.ErrConflict) {
		return nil, models.NewStageError(models.StageCreateUser, claim.SubjectID, err)
	}

	metrics.ConflictsResolved.WithLabelValues("user").Inc()
	user, err = w.repo.FindUserBySubject(ctx, claim.SubjectID, true)
	if err != nil {
		return nil, models.NewStageError(models.StageResolveUser, claim.SubjectID, err)
	}
	if user == nil {
		return nil, models.NewStageError(models.StageCreateUser, claim.SubjectID,
			errors.New("user conflict reported but no row found on re-read"))
	}
	return user, nil
}

// createWallet stores the wallet. created is false when a concurrent request won
// the insert, in which case the winner's wallet is returned.
func (w *WalletSync) createWallet(ctx context.Context, user *models.User, address, chainType string) (wallet *models.Wallet, created bool, err error) {
	wallet, err = w.repo.CreateWallet(context.WithoutCancel(ctx), user.ID, address, chainType)
	if err == nil {
		return wallet, true, nil
	}
	if !errors.Is(err, models.ErrConflict) {
		return nil, false, models.NewStageError(models.StageCreateWallet, user.SubjectID, err)
	}

	metrics.ConflictsResolved.WithLabelValues("wallet").Inc()
	wallet, err = w.repo.FindWalletByUser(ctx, user.ID)
	if err != nil {
		return nil, false, models.NewStageError(models.StageCreateWallet, user.SubjectID, err)
	}
	if wallet == nil {
		return nil, false, models.NewStageError(models.StageCreateWallet, user.SubjectID,
			errors.New("wallet conflict reported but no row found on re-read"))
	}
	return wallet, false, nil
}

func (w *WalletSync) cachedAddress(ctx context.Context, subjectID string) string {
	if w.cache == nil {
		return ""
	}
	address, err := w.cache.GetAddress(ctx, subjectID)
	if err != nil {
		w.logger.Warnw("Address cache read failed", "subject_id", subjectID, "error", err)
		return ""
	}
	return address
}

func (w *WalletSync) remember(ctx context.Context, subjectID, address string) {
	if w.cache == nil {
		return
	}
	if err := w.cache.SetAddress(ctx, subjectID, address); err != nil {
		w.logger.Warnw("Address cache write failed", "subject_id", subjectID, "error", err)
	}
}

// notify sends the provisioning notification in the background.
func (w *WalletSync) notify(subjectID, userID string, wallet *models.Wallet) {
	if w.notificator == nil {
		return
	}
	notification := &models.Notification{
		SubjectID: subjectID,
		UserID:    userID,
		Address:   wallet.Address,
		ChainType: wallet.ChainType,
		SyncedAt:  time.Now(),
	}
	w.safeGo(func() { w.notificator.SendNotification(notification) }, "notify")
}

// safeGo runs fn in a goroutine with panic recovery.
func (w *WalletSync) safeGo(fn func(), context string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				w.logger.Errorw("Goroutine panicked",
					"context", context,
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()))
			}
		}()
		fn()
	}()
}

func existing(address string) *models.SyncResult {
	return &models.SyncResult{Synced: false, Message: MessageAlreadyExists, Address: address}
}
