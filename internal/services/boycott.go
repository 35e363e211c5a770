package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/boycottpro/boycottpro-backend/internal/platform/apierr"
	"github.com/boycottpro/boycottpro-backend/internal/platform/logger"
	"github.com/boycottpro/boycottpro-backend/internal/repos"
	"github.com/boycottpro/boycottpro-backend/internal/requestdata"
	"github.com/boycottpro/boycottpro-backend/internal/types"
)

// BoycottService records a user's boycott declaration: one fact row per
// reason, each committed atomically with its derived counters, with
// duplicates skipped and per-reason failures isolated.
//
// Known race window: every duplicate check and aggregate probe here is a
// read followed later by a write, and the pair is not atomic. Two requests
// racing on the same (user, company, cause) can both pass HasSpecificBoycott
// and both commit. That is an accepted design boundary; the read-before-write
// checks are best effort, not locks.
type BoycottService interface {
	AddBoycotts(ctx context.Context, form *types.AddBoycottsForm) (*types.AddBoycottsResult, error)
}

type boycottService struct {
	log         *logger.Logger
	companyRepo repos.CompanyRepo
	causeRepo   repos.CauseRepo
	factRepo    repos.UserBoycottRepo
	followRepo  repos.UserCauseRepo
	statsRepo   repos.CauseCompanyStatsRepo
	txRepo      repos.TransactionRepo
	now         func() time.Time
}

func NewBoycottService(
	baseLog *logger.Logger,
	companyRepo repos.CompanyRepo,
	causeRepo repos.CauseRepo,
	factRepo repos.UserBoycottRepo,
	followRepo repos.UserCauseRepo,
	statsRepo repos.CauseCompanyStatsRepo,
	txRepo repos.TransactionRepo,
) BoycottService {
	return &boycottService{
		log:         baseLog.With("service", "BoycottService"),
		companyRepo: companyRepo,
		causeRepo:   causeRepo,
		factRepo:    factRepo,
		followRepo:  followRepo,
		statsRepo:   statsRepo,
		txRepo:      txRepo,
		now:         time.Now,
	}
}

func (bs *boycottService) AddBoycotts(ctx context.Context, form *types.AddBoycottsForm) (*types.AddBoycottsResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == "" {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("no authenticated user on request"))
	}
	userID := rd.UserID
	log := bs.log.With("user_id", userID)

	if err := validateForm(form); err != nil {
		return nil, err
	}

	valid, err := bs.companyRepo.ValidateName(ctx, form.CompanyID, form.CompanyName)
	if err != nil {
		// Fail closed: an unverifiable company reference is never trusted
		// enough to write data keyed to it.
		log.Warn("company validation lookup failed", "source", "validateCompany", "company_id", form.CompanyID, "error", err)
		valid = false
	}
	if !valid {
		return nil, apierr.New(http.StatusInternalServerError, "invalid_company",
			fmt.Errorf("not a valid company"))
	}

	now := bs.now().UTC().Format(time.RFC3339Nano)

	// Pre-request baseline for the company-counter gate. Must be resolved
	// before any writes so it reflects state as of request start.
	hadBoycott, err := bs.factRepo.HasAnyBoycott(ctx, userID, form.CompanyID)
	if err != nil {
		log.Warn("prior-boycott lookup failed, proceeding as if none", "source", "hasAnyBoycott", "company_id", form.CompanyID, "error", err)
		hadBoycott = false
	}

	anySuccess := false
	var errs []string

	for _, reason := range form.Reasons {
		ok, ferr := bs.processReason(ctx, log, userID, form, reason, now)
		if ferr != "" {
			errs = append(errs, ferr)
		}
		if ok {
			anySuccess = true
		}
	}

	committed, ferr := bs.processPersonalReason(ctx, log, userID, form, now)
	if ferr != "" {
		errs = append(errs, ferr)
	}
	if committed {
		anySuccess = true
	}

	if !hadBoycott && anySuccess {
		if err := bs.companyRepo.IncrementBoycottCount(ctx, form.CompanyID); err != nil {
			log.Error("company counter update failed", "source", "companyCounter", "company_id", form.CompanyID, "error", err)
			return nil, fmt.Errorf("increment company boycott count: %w", err)
		}
	}

	switch {
	case !anySuccess:
		log.Info("no new boycotts recorded", "company_id", form.CompanyID, "failed", len(errs))
		return &types.AddBoycottsResult{Outcome: types.OutcomeAllDuplicate, Errors: errs}, nil
	case len(errs) > 0:
		log.Warn("boycotts partially recorded", "company_id", form.CompanyID, "failed", len(errs))
		return &types.AddBoycottsResult{Outcome: types.OutcomePartialSuccess, Errors: errs}, nil
	default:
		log.Info("all boycotts recorded", "company_id", form.CompanyID)
		return &types.AddBoycottsResult{Outcome: types.OutcomeAllSuccess}, nil
	}
}

// processReason runs one structured reason through its states:
// duplicate check -> cause validation -> aggregate probe -> commit.
// Returns (committed, failureMessage). A skip is neither.
func (bs *boycottService) processReason(ctx context.Context, log *logger.Logger, userID string, form *types.AddBoycottsForm, reason types.BoycottReason, now string) (bool, string) {
	causeID := reason.CauseID

	dup, err := bs.factRepo.HasSpecificBoycott(ctx, userID, form.CompanyID, causeID)
	if err != nil {
		log.Warn("duplicate lookup failed, treating as new", "source", "hasSpecificBoycott", "cause_id", causeID, "error", err)
		dup = false
	}
	if dup {
		return false, ""
	}

	validCause, err := bs.causeRepo.ValidateDescription(ctx, causeID, reason.CauseDesc)
	if err != nil {
		log.Warn("cause validation lookup failed", "source", "validateCause", "cause_id", causeID, "error", err)
		validCause = false
	}
	if !validCause {
		// Local to this reason: skip, don't fail the request.
		log.Debug("cause reference rejected, skipping reason", "cause_id", causeID)
		return false, ""
	}

	factAction, err := bs.factRepo.PutFactAction(&types.BoycottFact{
		UserID:         userID,
		CompanyID:      form.CompanyID,
		CompanyName:    form.CompanyName,
		CauseID:        causeID,
		CauseDesc:      reason.CauseDesc,
		CompanyCauseID: repos.CompanyCauseKey(form.CompanyID, causeID),
		Timestamp:      now,
	})
	if err != nil {
		return false, failedCauseMsg(causeID, err)
	}
	actions := []ddbtypes.TransactWriteItem{factAction}

	following, err := bs.followRepo.IsFollowing(ctx, userID, causeID)
	if err != nil {
		log.Warn("follow lookup failed, treating as not following", "source", "isFollowingCause", "cause_id", causeID, "error", err)
		following = false
	}
	if !following {
		followAction, ferr := bs.followRepo.PutFollowAction(&types.CauseFollow{
			UserID:    userID,
			CauseID:   causeID,
			CauseDesc: reason.CauseDesc,
			Timestamp: now,
		})
		if ferr != nil {
			return false, failedCauseMsg(causeID, ferr)
		}
		actions = append(actions, followAction, bs.causeRepo.FollowerIncrementAction(causeID))
	}

	statExists, err := bs.statsRepo.Exists(ctx, causeID, form.CompanyID)
	if err != nil {
		log.Warn("stats probe failed, treating as absent", "source", "aggregateProbe", "cause_id", causeID, "error", err)
		statExists = false
	}
	if statExists {
		actions = append(actions, bs.statsRepo.IncrementAction(causeID, form.CompanyID))
	} else {
		insertAction, serr := bs.statsRepo.InsertAction(&types.CauseCompanyStat{
			CauseID:      causeID,
			CompanyID:    form.CompanyID,
			CompanyName:  form.CompanyName,
			CauseDesc:    reason.CauseDesc,
			BoycottCount: 1,
		})
		if serr != nil {
			return false, failedCauseMsg(causeID, serr)
		}
		actions = append(actions, insertAction)
	}

	if err := bs.txRepo.Write(ctx, actions); err != nil {
		log.Error("write set rejected", "source", "commit", "cause_id", causeID, "error", err)
		return false, failedCauseMsg(causeID, err)
	}
	return true, ""
}

// processPersonalReason is the single-shot free-text path: a lone fact
// insert, no follower or per-cause aggregate involvement. Returns
// (committed, failureMessage); a skip is neither.
func (bs *boycottService) processPersonalReason(ctx context.Context, log *logger.Logger, userID string, form *types.AddBoycottsForm, now string) (bool, string) {
	personal := form.PersonalReason
	if strings.TrimSpace(personal) == "" {
		return false, ""
	}

	dup, err := bs.factRepo.HasPersonalReason(ctx, userID, form.CompanyID, personal)
	if err != nil {
		log.Warn("personal-reason lookup failed, treating as new", "source", "hasPersonalReason", "error", err)
		dup = false
	}
	if dup {
		return false, ""
	}

	factAction, err := bs.factRepo.PutFactAction(&types.BoycottFact{
		UserID:         userID,
		CompanyID:      form.CompanyID,
		CompanyName:    form.CompanyName,
		PersonalReason: personal,
		CompanyCauseID: repos.PersonalReasonKey(personal, form.CompanyID),
		Timestamp:      now,
	})
	if err != nil {
		return false, failedPersonalMsg(personal, err)
	}
	if err := bs.txRepo.Write(ctx, []ddbtypes.TransactWriteItem{factAction}); err != nil {
		log.Error("write set rejected", "source", "commitPersonal", "error", err)
		return false, failedPersonalMsg(personal, err)
	}
	return true, ""
}

func validateForm(form *types.AddBoycottsForm) error {
	if form == nil || strings.TrimSpace(form.CompanyID) == "" {
		return apierr.New(http.StatusBadRequest, "missing_company", fmt.Errorf("company_id is required"))
	}
	if len(form.Reasons) == 0 && strings.TrimSpace(form.PersonalReason) == "" {
		return apierr.New(http.StatusBadRequest, "missing_reasons", fmt.Errorf("at least one reason or a personal_reason is required"))
	}
	return nil
}

func failedCauseMsg(causeID string, err error) string {
	return fmt.Sprintf("Failed to record boycott for cause: %s -> %v", causeID, err)
}

func failedPersonalMsg(personalReason string, err error) string {
	return fmt.Sprintf("Failed to record boycott for personal reason: %s -> %v", personalReason, err)
}
