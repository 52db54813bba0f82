package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/logging"
	"app/internal/scheduler"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
)

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, sellerID int64, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	if sellerID > 0 {
		claims["seller_id"] = sellerID
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logging.New(cfg.LogLevel)

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Seller{},
		&model.Game{},
		&model.OrderItem{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.Gift{},
		&model.AuditLog{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	gameRepo := infraRepo.NewGameGormRepository(gormDB)

	//usecaseに渡す部品
	clock := usecase.RealClock{}
	hasher := usecase.NewBcryptPasswordHasher(12)
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(txManager, hasher, issuer, clock)
	gameUC := usecase.NewGameUsecase(gameRepo, orderItemRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, orderItemRepo, gameRepo)
	orderUC := usecase.NewOrderUsecase(txManager, clock)
	orderItemUC := usecase.NewOrderItemUsecase(txManager, clock)
	giftUC := usecase.NewGiftUsecase(txManager, clock)
	adminUserUC := usecase.NewAdminUserUsecase(txManager, clock)
	statusUC := usecase.NewOrderStatusUsecase(txManager, clock)

	//Server生成
	srv := server.New(cfg, log, server.Handlers{
		Auth:       handler.NewAuthHandler(authUC),
		Game:       handler.NewGameHandler(gameUC),
		Cart:       handler.NewCartHandler(cartUC),
		Order:      handler.NewOrderHandler(orderUC),
		SellerItem: handler.NewSellerItemHandler(orderItemUC),
		Gift:       handler.NewGiftHandler(giftUC),
		AdminUser:  handler.NewAdminUserHandler(adminUserUC),
	})

	//SIGINT/SIGTERMで止める
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()

	//ステータススケジューラ起動
	sched := scheduler.NewStatusScheduler(log, statusUC, cfg.SchedulerInterval)
	go func() {
		if err := sched.Run(ctx); err != nil {
			log.Error("scheduler stopped", "err", err)
		}
	}()

	addr := ":" + cfg.Port
	if cfg.Port[0] == ':' {
		addr = cfg.Port
	}

	go func() {
		log.Info("server starting", "addr", addr)
		if err := srv.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error("server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	//graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "err", err)
	}
	log.Info("server stopped")
}
