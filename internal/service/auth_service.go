package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/config"
	"github.com/tb0023/biz_go_server/internal/model"
	"github.com/tb0023/biz_go_server/internal/model/dto"
	"github.com/tb0023/biz_go_server/internal/pkg/email"
	"github.com/tb0023/biz_go_server/internal/pkg/jwt"
	"github.com/tb0023/biz_go_server/internal/pkg/oauth"
	"github.com/tb0023/biz_go_server/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("该邮箱已注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrEmailNotVerified   = errors.New("邮箱未验证")
	ErrInvalidOTP         = errors.New("验证码错误")
	ErrOTPExpired         = errors.New("验证码已过期")
	ErrAccountNotFound    = errors.New("账号不存在")
)

const otpTTL = 10 * time.Minute

// AuthService 注册、登录与 Google 授权登录
type AuthService struct {
	db          *gorm.DB
	companyRepo *repository.CompanyRepository
	accountRepo *repository.AccountRepository
	emailSvc    *email.Service
	google      *oauth.GoogleOAuth
	stateStore  *oauth.StateStore
	jwtCfg      *config.JWTConfig
}

func NewAuthService(
	db *gorm.DB,
	companyRepo *repository.CompanyRepository,
	accountRepo *repository.AccountRepository,
	emailSvc *email.Service,
	google *oauth.GoogleOAuth,
	stateStore *oauth.StateStore,
	jwtCfg *config.JWTConfig,
) *AuthService {
	return &AuthService{
		db:          db,
		companyRepo: companyRepo,
		accountRepo: accountRepo,
		emailSvc:    emailSvc,
		google:      google,
		stateStore:  stateStore,
		jwtCfg:      jwtCfg,
	}
}

// Register 注册公司及登录账号，发送邮箱验证码
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	taken, err := s.accountRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	code, err := generateOTP()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(otpTTL)

	company := &model.Company{
		Name:     req.CompanyName,
		Email:    req.Email,
		Phone:    req.Phone,
		Industry: req.Industry,
	}
	account := &model.Account{
		Email:        req.Email,
		PasswordHash: &hashStr,
		OTPCode:      &code,
		OTPExpiresAt: &expiresAt,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.companyRepo.WithTx(tx).Create(company); err != nil {
			return err
		}
		account.CompanyID = company.ID
		return s.accountRepo.WithTx(tx).Create(account)
	})
	if err != nil {
		return nil, err
	}

	// 发信走异步，失败不影响注册
	go func() {
		if err := s.emailSvc.SendOTPCode(req.Email, code); err != nil {
			log.Printf("发送验证码失败 email=%s: %v", req.Email, err)
		}
	}()

	return &dto.RegisterResponse{CompanyID: company.ID, AccountID: account.ID}, nil
}

// VerifyOTP 校验邮箱验证码，通过后账号可登录
func (s *AuthService) VerifyOTP(emailAddr, code string) error {
	account, err := s.accountRepo.GetByEmail(emailAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if account.EmailVerified {
		return nil
	}
	if account.OTPCode == nil || *account.OTPCode != code {
		return ErrInvalidOTP
	}
	if account.OTPExpiresAt == nil || time.Now().After(*account.OTPExpiresAt) {
		return ErrOTPExpired
	}

	account.EmailVerified = true
	account.OTPCode = nil
	account.OTPExpiresAt = nil
	if err := s.accountRepo.Update(account); err != nil {
		return err
	}

	go func() {
		company, err := s.companyRepo.GetByID(account.CompanyID)
		if err != nil {
			return
		}
		if err := s.emailSvc.SendWelcome(account.Email, company.Name); err != nil {
			log.Printf("发送欢迎邮件失败 email=%s: %v", account.Email, err)
		}
	}()
	return nil
}

// Login 邮箱密码登录
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	account, err := s.accountRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if account.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !account.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	return s.issueToken(account.CompanyID)
}

// GoogleAuthURL 生成 Google 授权跳转地址
func (s *AuthService) GoogleAuthURL(ctx context.Context, redirectURI string) (string, error) {
	state, err := s.stateStore.GenerateState(ctx, redirectURI)
	if err != nil {
		return "", err
	}
	return s.google.GetAuthURL(state), nil
}

// GoogleCallback 处理授权回调：换码取用户，按 googleID 或邮箱关联账号，
// 都没有则自动注册。返回登录态和发起授权时的前端回跳地址。
func (s *AuthService) GoogleCallback(ctx context.Context, state, code string) (*dto.LoginResponse, string, error) {
	redirectURI, err := s.stateStore.ValidateState(ctx, state)
	if err != nil {
		return nil, "", err
	}

	token, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, "", err
	}
	gu, err := s.google.GetUser(ctx, token)
	if err != nil {
		return nil, "", err
	}

	account, err := s.accountRepo.GetByGoogleID(gu.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", err
		}
		account, err = s.linkOrCreateAccount(gu)
		if err != nil {
			return nil, "", err
		}
	}

	resp, err := s.issueToken(account.CompanyID)
	if err != nil {
		return nil, "", err
	}
	return resp, redirectURI, nil
}

// linkOrCreateAccount 已有同邮箱账号则绑定 googleID，否则建新公司和账号
func (s *AuthService) linkOrCreateAccount(gu *oauth.GoogleUser) (*model.Account, error) {
	account, err := s.accountRepo.GetByEmail(gu.Email)
	if err == nil {
		account.GoogleID = &gu.ID
		account.EmailVerified = true
		if err := s.accountRepo.Update(account); err != nil {
			return nil, err
		}
		return account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	company := &model.Company{Name: gu.Name, Email: gu.Email}
	account = &model.Account{
		Email:         gu.Email,
		GoogleID:      &gu.ID,
		EmailVerified: true,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.companyRepo.WithTx(tx).Create(company); err != nil {
			return err
		}
		account.CompanyID = company.ID
		return s.accountRepo.WithTx(tx).Create(account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AuthService) issueToken(companyID int64) (*dto.LoginResponse, error) {
	company, err := s.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	token, err := jwt.GenerateToken(companyID, s.jwtCfg.Secret, s.jwtCfg.ExpireHours)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Company: company}, nil
}

// generateOTP 生成 6 位数字验证码
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
