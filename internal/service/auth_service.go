package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/sorvex/affiliate-api/internal/config"
	"github.com/sorvex/affiliate-api/internal/models"
	"github.com/sorvex/affiliate-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// AuthService 推广者认证服务
type AuthService struct {
	cfg           *config.Config
	affiliateRepo repository.AffiliateRepository
	codeRepo      repository.DiscountCodeRepository
}

// NewAuthService 创建推广者认证服务
func NewAuthService(cfg *config.Config, affiliateRepo repository.AffiliateRepository, codeRepo repository.DiscountCodeRepository) *AuthService {
	return &AuthService{
		cfg:           cfg,
		affiliateRepo: affiliateRepo,
		codeRepo:      codeRepo,
	}
}

// JWTClaims 推广者 JWT 声明
type JWTClaims struct {
	AffiliateID uint   `json:"affiliate_id"`
	Email       string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成推广者 JWT Token
func (s *AuthService) GenerateJWT(affiliate *models.Affiliate) (string, time.Time, error) {
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := JWTClaims{
		AffiliateID: affiliate.ID,
		Email:       affiliate.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析推广者 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &JWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}

// Register 推广者注册：生成专属折扣码并关联上级
func (s *AuthService) Register(email, password, parentDiscountCode string) (*models.Affiliate, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if strings.TrimSpace(password) == "" {
		return nil, "", time.Time{}, ErrPasswordRequired
	}
	if len(password) < minPasswordLength {
		return nil, "", time.Time{}, ErrPasswordTooShort
	}

	exist, err := s.affiliateRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exist != nil {
		return nil, "", time.Time{}, ErrEmailExists
	}

	// 上级折扣码查不到时静默忽略，不阻断注册
	var parent *models.Affiliate
	if code := strings.TrimSpace(parentDiscountCode); code != "" {
		parent, err = s.affiliateRepo.GetByDiscountCode(code)
		if err != nil {
			return nil, "", time.Time{}, err
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	affiliate, err := s.createWithUniqueCode(normalized, string(hashedPassword), parent)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateJWT(affiliate)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return affiliate, token, expiresAt, nil
}

// createWithUniqueCode 生成折扣码并在单事务内落库，码冲突时重试
func (s *AuthService) createWithUniqueCode(email, passwordHash string, parent *models.Affiliate) (*models.Affiliate, error) {
	maxRetry := s.cfg.Affiliate.CodeMaxAttempts
	if maxRetry <= 0 {
		maxRetry = 8
	}

	for i := 0; i < maxRetry; i++ {
		code, genErr := generateDiscountCode()
		if genErr != nil {
			return nil, genErr
		}

		now := time.Now()
		affiliate := &models.Affiliate{
			Email:         email,
			PasswordHash:  passwordHash,
			DiscountCode:  code,
			TotalEarnings: models.NewMoneyFromFloat(0),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if parent != nil {
			parentID := parent.ID
			affiliate.ParentID = &parentID
			affiliate.ParentDiscountCode = parent.DiscountCode
		}

		err := s.affiliateRepo.Transaction(func(tx *gorm.DB) error {
			if err := s.affiliateRepo.WithTx(tx).Create(affiliate); err != nil {
				return err
			}
			codeRow := &models.DiscountCode{
				Code:              code,
				AffiliateID:       affiliate.ID,
				DiscountPercent:   models.NewMoneyFromFloat(float64(s.resolveDiscountPercent())),
				CommissionPercent: models.NewMoneyFromFloat(float64(s.resolveCommissionPercent())),
				IsActive:          true,
				CreatedAt:         now,
			}
			if err := s.codeRepo.WithTx(tx).Create(codeRow); err != nil {
				return err
			}
			if affiliate.ParentID != nil {
				if err := s.affiliateRepo.WithTx(tx).IncrementRecruits(*affiliate.ParentID); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			if isUniqueViolation(err) {
				// 唯一键冲突可能来自并发注册的同一邮箱，先排除再重试换码
				exist, lookupErr := s.affiliateRepo.GetByEmail(email)
				if lookupErr != nil {
					return nil, lookupErr
				}
				if exist != nil {
					return nil, ErrEmailExists
				}
				continue
			}
			return nil, err
		}
		return affiliate, nil
	}
	return nil, ErrCodeGeneration
}

// Login 推广者登录
func (s *AuthService) Login(email, password string) (*models.Affiliate, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	affiliate, err := s.affiliateRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if affiliate == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(affiliate.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(affiliate)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return affiliate, token, expiresAt, nil
}

// GetAffiliateByID 获取推广者信息
func (s *AuthService) GetAffiliateByID(id uint) (*models.Affiliate, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	affiliate, err := s.affiliateRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}
	return affiliate, nil
}

func (s *AuthService) resolveDiscountPercent() int {
	if s.cfg.Affiliate.DiscountPercent <= 0 {
		return 10
	}
	return s.cfg.Affiliate.DiscountPercent
}

func (s *AuthService) resolveCommissionPercent() int {
	if s.cfg.Affiliate.CommissionRatePercent <= 0 {
		return 20
	}
	return s.cfg.Affiliate.CommissionRatePercent
}

// generateDiscountCode 生成折扣码：8 位随机十六进制 + 4 位时间戳 base36 后缀
func generateDiscountCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	random := strings.ToUpper(hex.EncodeToString(buf))
	suffix := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return random + suffix, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}
