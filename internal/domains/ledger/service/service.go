package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"todochain/config"
	"todochain/infras/kafka"
	"todochain/infras/otel"
	"todochain/infras/s3"
	"todochain/internal/domains/ledger/model"
	"todochain/internal/domains/ledger/model/dto"
	"todochain/internal/domains/ledger/repository"
	"todochain/shared"
	"todochain/shared/cache"
	"todochain/shared/constant"
	gDto "todochain/shared/dto"
	"todochain/shared/failure"
	"todochain/shared/logger"
)

const (
	slotsPerEpoch     = 432_000
	maxInstructions   = 255
	maxAccountsPerIx  = 255
	snapshotDirectory = "snapshots"
	snapshotExtension = ".json"

	defaultRecentSlotWindow = 150
)

// Ledger executes transactions against the account store and serves account reads.
type Ledger interface {
	Execute(ctx context.Context, tx model.Transaction) (model.Receipt, error)
	GetAccount(ctx context.Context, pubkey model.Pubkey) (model.Account, error)
	ListAccounts(ctx context.Context, filter model.AccountFilter, params gDto.QueryParams) (dto.GetAccountsResponse, error)
	Airdrop(ctx context.Context, pubkey model.Pubkey, lamports uint64) (model.Receipt, error)
	Snapshot(ctx context.Context, pubkey model.Pubkey) (model.Snapshot, error)
	GetSnapshot(ctx context.Context, pubkey model.Pubkey, slot uint64) (model.Snapshot, error)
	Clock() model.Clock
}

type serviceImpl struct {
	repo      repository.Account
	registry  Registry
	cache     cache.RedisCache
	publisher kafka.Client
	storage   s3.S3
	clock     clock.Clock
	config    *config.Config
	otel      otel.Otel
	rent      model.Rent
	window    uint64

	// mu serializes state transitions so each transaction sees the previous one's commit.
	// It also orders cache fills against commits.
	mu        sync.Mutex
	slot      uint64
	genesis   time.Time
	// processed maps committed transaction ids to their recent slot until they leave the window.
	processed map[string]uint64
}

func New(
	repo repository.Account,
	registry Registry,
	cache cache.RedisCache,
	publisher kafka.Client,
	storage s3.S3,
	clk clock.Clock,
	cfg *config.Config,
	otel otel.Otel,
) Ledger {
	window := cfg.Ledger.RecentSlotWindow
	if window == 0 {
		window = defaultRecentSlotWindow
	}

	return &serviceImpl{
		repo:      repo,
		registry:  registry,
		cache:     cache,
		publisher: publisher,
		storage:   storage,
		clock:     clk,
		config:    cfg,
		otel:      otel,
		rent: model.Rent{
			LamportsPerByteYear: cfg.Rent.LamportsPerByteYear,
			ExemptionThreshold:  cfg.Rent.ExemptionThreshold,
		},
		window:    window,
		genesis:   clk.Now(),
		processed: map[string]uint64{},
	}
}

// Clock returns the sysvar value the next transaction would observe, without advancing the slot.
func (s *serviceImpl) Clock() model.Clock {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clockAt(s.slot + 1)
}

func (s *serviceImpl) clockAt(slot uint64) model.Clock {
	epoch := slot / slotsPerEpoch

	return model.Clock{
		Slot:                slot,
		EpochStartTimestamp: s.genesis.Unix(),
		Epoch:               epoch,
		LeaderScheduleEpoch: epoch + 1,
		UnixTimestamp:       s.clock.Now().Unix(),
	}
}

func (s *serviceImpl) Execute(ctx context.Context, tx model.Transaction) (receipt model.Receipt, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelRuntimeScopeName, constant.OtelRuntimeScopeName+".Execute")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	receipt = model.Receipt{
		ID:     model.TransactionID(tx.Message),
		Status: model.ReceiptStatusFailed,
		Logs:   []string{},
	}
	scope.SetAttribute("tx.id", receipt.ID)

	defer func() {
		if err != nil {
			receipt.Error = err.Error()
			receipt.ErrorCode = failure.GetProgramCode(err)
		}

		s.publish(ctx, receipt)
	}()

	if err = validateMessage(tx.Message); err != nil {
		return receipt, err
	}

	verified := tx.VerifiedSigners()
	for _, signer := range tx.Message.RequiredSigners() {
		if !verified[signer] {
			return receipt, failure.Wrap(failure.MissingSignature, "%s", signer)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.checkRecent(tx.Message, receipt.ID); err != nil {
		return receipt, err
	}

	s.slot++
	receipt.Slot = s.slot
	sysvarClock := s.clockAt(s.slot)

	loaded, err := s.load(ctx, tx.Message, sysvarClock)
	if err != nil {
		return receipt, err
	}

	working := make(map[model.Pubkey]model.Account, len(loaded))
	for key, account := range loaded {
		working[key] = account.Clone()
	}

	for _, ix := range tx.Message.Instructions {
		logs, ixErr := s.invoke(ctx, ix, working)
		receipt.Logs = append(receipt.Logs, logs...)

		if ixErr != nil {
			return receipt, ixErr
		}
	}

	changed := s.changedAccounts(tx.Message, loaded, working)
	if err = s.repo.Commit(ctx, changed); err != nil {
		log.Error().Err(err).Str("tx", receipt.ID).Msg("failed to commit transaction")

		return receipt, failure.InternalError(err)
	}

	s.invalidate(ctx, changed)
	s.remember(receipt.ID, tx.Message.RecentSlot)

	receipt.Status = model.ReceiptStatusCommitted

	log.Info().Str("tx", receipt.ID).Uint64("slot", receipt.Slot).Int("accounts", len(changed)).Msg("transaction committed")

	return receipt, nil
}

// checkRecent rejects messages whose recent slot is outside the window and ids that already committed.
// Callers hold s.mu.
func (s *serviceImpl) checkRecent(msg model.Message, id string) error {
	next := s.slot + 1

	if msg.RecentSlot > next || next-msg.RecentSlot > s.window {
		return failure.Wrap(failure.TransactionExpired, "recent slot %d, current slot %d, window %d", msg.RecentSlot, next, s.window)
	}

	if _, ok := s.processed[id]; ok {
		return failure.Wrap(failure.AlreadyProcessed, "%s", id)
	}

	return nil
}

// remember records a committed id and forgets ids checkRecent would now reject as expired.
func (s *serviceImpl) remember(id string, recentSlot uint64) {
	s.processed[id] = recentSlot

	next := s.slot + 1
	for key, recent := range s.processed {
		if next-recent > s.window {
			delete(s.processed, key)
		}
	}
}

func validateMessage(msg model.Message) error {
	if len(msg.Instructions) == 0 {
		return failure.Wrap(failure.MalformedInstruction, "transaction has no instructions")
	}

	if len(msg.Instructions) > maxInstructions {
		return failure.Wrap(failure.MalformedInstruction, "too many instructions: %d", len(msg.Instructions))
	}

	for i, ix := range msg.Instructions {
		if len(ix.Accounts) > maxAccountsPerIx {
			return failure.Wrap(failure.MalformedInstruction, "instruction %d has too many accounts", i)
		}

		seen := make(map[model.Pubkey]bool, len(ix.Accounts))
		for _, meta := range ix.Accounts {
			if seen[meta.Pubkey] {
				return failure.Wrap(failure.InvalidAccounts, "instruction %d references %s twice", i, meta.Pubkey)
			}

			seen[meta.Pubkey] = true
		}
	}

	return nil
}

// load fetches every referenced account, materializing the clock sysvar and program accounts.
func (s *serviceImpl) load(ctx context.Context, msg model.Message, sysvarClock model.Clock) (map[model.Pubkey]model.Account, error) {
	accounts := map[model.Pubkey]model.Account{}
	stored := []model.Pubkey{}

	for _, ix := range msg.Instructions {
		for _, meta := range ix.Accounts {
			if _, ok := accounts[meta.Pubkey]; ok {
				continue
			}

			switch virtual, isVirtual := s.virtualAccount(meta.Pubkey, sysvarClock); {
			case isVirtual && meta.IsWritable:
				return nil, failure.Wrap(failure.InvalidAccounts, "%s cannot be writable", meta.Pubkey)
			case isVirtual:
				accounts[meta.Pubkey] = virtual
			default:
				accounts[meta.Pubkey] = model.Account{}
				stored = append(stored, meta.Pubkey)
			}
		}

		if virtual, ok := s.virtualAccount(ix.ProgramID, sysvarClock); ok {
			if _, seen := accounts[ix.ProgramID]; !seen {
				accounts[ix.ProgramID] = virtual
			}
		}
	}

	fetched, err := s.repo.GetMany(ctx, stored)
	if err != nil {
		return nil, failure.InternalError(err)
	}

	for _, key := range stored {
		accounts[key] = fetched[key]
	}

	return accounts, nil
}

func (s *serviceImpl) virtualAccount(key model.Pubkey, sysvarClock model.Clock) (model.Account, bool) {
	if key == model.ClockSysvarID {
		return model.Account{Pubkey: key, Owner: model.SystemProgramID, Lamports: 1, Data: sysvarClock.Encode()}, true
	}

	if _, ok := s.registry[key]; ok {
		return model.Account{Pubkey: key, Owner: model.SystemProgramID, Lamports: 1, Executable: true}, true
	}

	return model.Account{}, false
}

// invoke runs one instruction against the working set and writes back its effects if they are legal.
func (s *serviceImpl) invoke(ctx context.Context, ix model.Instruction, working map[model.Pubkey]model.Account) ([]string, error) {
	logs := []string{fmt.Sprintf("Program %s invoke", ix.ProgramID)}

	program, ok := s.registry[ix.ProgramID]
	if !ok {
		err := failure.Wrap(failure.UnknownProgram, "%s", ix.ProgramID)

		return append(logs, fmt.Sprintf("Program %s failed: %v", ix.ProgramID, err)), err
	}

	ic := &model.InvokeContext{
		ProgramID: ix.ProgramID,
		Accounts:  make([]*model.AccountInfo, 0, len(ix.Accounts)),
		Data:      ix.Data,
	}

	for _, meta := range ix.Accounts {
		ic.Accounts = append(ic.Accounts, model.NewAccountInfo(meta, working[meta.Pubkey]))
	}

	err := program.Process(ctx, ic)
	if err == nil {
		err = s.verify(ix, working, ic.Accounts)
	}

	for _, line := range ic.Logs() {
		logger.ProgramLog(program.Name(), line)
		logs = append(logs, "Program log: "+line)
	}

	if err != nil {
		return append(logs, fmt.Sprintf("Program %s failed: %v", ix.ProgramID, err)), err
	}

	for _, info := range ic.Accounts {
		if info.IsWritable {
			working[info.Key] = info.Account()
		}
	}

	return append(logs, fmt.Sprintf("Program %s success", ix.ProgramID)), nil
}

// verify enforces the account rules a program cannot break, comparing each handle to its pre-state.
func (s *serviceImpl) verify(ix model.Instruction, working map[model.Pubkey]model.Account, infos []*model.AccountInfo) error {
	var before, after uint64

	for _, info := range infos {
		pre := working[info.Key]
		before += pre.Lamports
		after += info.Lamports

		dataChanged := !bytes.Equal(pre.Data, info.Data)
		ownerChanged := pre.Owner != info.Owner
		changed := dataChanged || ownerChanged || pre.Lamports != info.Lamports || pre.Executable != info.Executable

		if !changed {
			continue
		}

		if !info.IsWritable {
			return failure.Wrap(failure.ReadonlyModified, "%s", info.Key)
		}

		if pre.Executable != info.Executable {
			return failure.Wrap(failure.PermissionDenied, "executable flag of %s changed", info.Key)
		}

		fresh := pre.Owner == model.SystemProgramID && len(pre.Data) == 0

		if ownerChanged && !fresh {
			return failure.Wrap(failure.PermissionDenied, "owner of %s changed", info.Key)
		}

		if dataChanged && pre.Owner != ix.ProgramID && !fresh {
			return failure.Wrap(failure.PermissionDenied, "data of %s changed by non-owner %s", info.Key, ix.ProgramID)
		}

		if fresh && (ownerChanged || dataChanged) {
			if minimum := s.rent.MinimumBalance(uint64(len(info.Data))); info.Lamports < minimum {
				return failure.Wrap(failure.InsufficientFunds, "%s holds %d lamports, rent exemption needs %d", info.Key, info.Lamports, minimum)
			}
		}

		debited := info.Lamports < pre.Lamports
		if debited && pre.Owner != ix.ProgramID && !(pre.Owner == model.SystemProgramID && info.IsSigner) {
			return failure.Wrap(failure.PermissionDenied, "lamports of %s debited by non-owner %s", info.Key, ix.ProgramID)
		}
	}

	if before != after {
		return failure.Wrap(failure.InvalidAccounts, "instruction lamports unbalanced: %d before, %d after", before, after)
	}

	return nil
}

func (s *serviceImpl) changedAccounts(msg model.Message, loaded, working map[model.Pubkey]model.Account) []model.Account {
	now := s.clock.Now()
	seen := map[model.Pubkey]bool{}
	changed := []model.Account{}

	for _, ix := range msg.Instructions {
		for _, meta := range ix.Accounts {
			if !meta.IsWritable || seen[meta.Pubkey] {
				continue
			}

			seen[meta.Pubkey] = true

			pre, post := loaded[meta.Pubkey], working[meta.Pubkey]
			if pre.Lamports == post.Lamports && pre.Owner == post.Owner && bytes.Equal(pre.Data, post.Data) {
				continue
			}

			post.ModifiedAt = now
			changed = append(changed, post)
		}
	}

	return changed
}

func (s *serviceImpl) GetAccount(ctx context.Context, pubkey model.Pubkey) (account model.Account, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.GetAccount")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := s.cacheKey(pubkey)

	err = s.cache.Get(ctx, cacheKey, &account)
	if err == nil {
		scope.AddEvent("cache hit")

		return account, nil
	}

	if !errors.Is(err, cache.Nil) {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to read account from cache")
	}

	// A commit between the read and the fill would leave its pre-state cached until the TTL.
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err = s.repo.Get(ctx, pubkey)
	if err != nil {
		return model.Account{}, failure.InternalError(err)
	}

	if saveErr := s.cache.Save(ctx, cacheKey, account, s.config.Cache.TTL); saveErr != nil {
		log.Warn().Err(saveErr).Str("key", cacheKey).Msg("failed to cache account")
	}

	return account, nil
}

// ListAccounts pages through the accounts a program owns. Listings bypass the account cache.
func (s *serviceImpl) ListAccounts(ctx context.Context, filter model.AccountFilter, params gDto.QueryParams) (res dto.GetAccountsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.ListAccounts")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	accounts, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		log.Error().Err(err).Str("owner", filter.Owner.String()).Msg("failed to list accounts")

		return res, failure.InternalError(err)
	}

	res.FromModels(accounts, total, params.Limit)

	return res, nil
}

// Airdrop credits lamports to an account outside of any program, for local funding.
func (s *serviceImpl) Airdrop(ctx context.Context, pubkey model.Pubkey, lamports uint64) (receipt model.Receipt, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.Airdrop")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if lamports == 0 || lamports > s.config.Ledger.AirdropLamports {
		return model.Receipt{}, failure.BadRequestFromString(fmt.Sprintf("lamports must be between 1 and %d", s.config.Ledger.AirdropLamports))
	}

	if _, isVirtual := s.virtualAccount(pubkey, model.Clock{}); isVirtual {
		return model.Receipt{}, failure.BadRequestFromString("cannot airdrop to a program or sysvar account")
	}

	s.mu.Lock()

	account, err := s.repo.Get(ctx, pubkey)
	if err != nil {
		s.mu.Unlock()

		return model.Receipt{}, failure.InternalError(err)
	}

	account.Lamports += lamports
	account.ModifiedAt = s.clock.Now()

	if err = s.repo.Commit(ctx, []model.Account{account}); err != nil {
		s.mu.Unlock()

		return model.Receipt{}, failure.InternalError(err)
	}

	s.slot++
	receipt = model.Receipt{
		ID:     "airdrop-" + uuid.NewString(),
		Slot:   s.slot,
		Status: model.ReceiptStatusCommitted,
		Logs:   []string{fmt.Sprintf("Airdropped %d lamports to %s", lamports, pubkey)},
	}

	s.mu.Unlock()

	s.invalidate(ctx, []model.Account{account})
	s.publish(ctx, receipt)

	return receipt, nil
}

// Snapshot uploads the current state of an account to object storage.
func (s *serviceImpl) Snapshot(ctx context.Context, pubkey model.Pubkey) (snapshot model.Snapshot, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.Snapshot")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	s.mu.Lock()
	slot := s.slot
	account, err := s.repo.Get(ctx, pubkey)
	s.mu.Unlock()

	if err != nil {
		return model.Snapshot{}, failure.InternalError(err)
	}

	if account.IsUnused() {
		return model.Snapshot{}, failure.NotFound(model.EntityName + " " + pubkey.String() + " not found")
	}

	snapshot = model.Snapshot{
		Pubkey:   account.Pubkey,
		Owner:    account.Owner,
		Lamports: account.Lamports,
		Data:     account.Data,
		Slot:     slot,
		TakenAt:  s.clock.Now().UTC(),
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return model.Snapshot{}, failure.InternalError(err)
	}

	url, err := s.storage.UploadBytes(ctx, path.Join(snapshotDirectory, pubkey.String()), snapshotFileName(slot), constant.ContentTypeJSON, payload)
	if err != nil {
		return model.Snapshot{}, failure.InternalError(err)
	}

	snapshot.URL = url

	return snapshot, nil
}

func (s *serviceImpl) GetSnapshot(ctx context.Context, pubkey model.Pubkey, slot uint64) (snapshot model.Snapshot, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ledger.GetSnapshot")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	payload, err := s.storage.Download(ctx, path.Join(snapshotDirectory, pubkey.String(), snapshotFileName(slot)))
	if err != nil {
		return model.Snapshot{}, failure.NotFound(fmt.Sprintf("snapshot of %s at slot %d not found", pubkey, slot))
	}

	if err = json.Unmarshal(payload, &snapshot); err != nil {
		return model.Snapshot{}, failure.InternalError(err)
	}

	return snapshot, nil
}

func snapshotFileName(slot uint64) string {
	return strconv.FormatUint(slot, 10) + snapshotExtension
}

func (s *serviceImpl) cacheKey(pubkey model.Pubkey) string {
	return shared.BuildCacheKey(s.config.App.Name, constant.CacheKeyAccount, pubkey.String())
}

func (s *serviceImpl) invalidate(ctx context.Context, accounts []model.Account) {
	if len(accounts) == 0 {
		return
	}

	keys := make([]string, 0, len(accounts))
	for _, account := range accounts {
		keys = append(keys, s.cacheKey(account.Pubkey))
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("failed to invalidate cached accounts")
	}
}

func (s *serviceImpl) publish(ctx context.Context, receipt model.Receipt) {
	err := s.publisher.SendMessages(ctx, s.config.Kafka.Topic.Receipts, kafka.Message{Key: receipt.ID, Value: receipt})
	if err != nil {
		log.Warn().Err(err).Str("tx", receipt.ID).Msg("failed to publish receipt")
	}
}
