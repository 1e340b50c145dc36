package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "lendsim/internal/adapter/http"
	mw "lendsim/internal/adapter/middleware"
	"lendsim/internal/adapter/repository/mysql"
	"lendsim/internal/config"
	"lendsim/internal/infrastructure/cache"
	"lendsim/internal/infrastructure/db"
	"lendsim/internal/usecase/adminflow"
	"lendsim/internal/usecase/approval"
	"lendsim/internal/usecase/loanreq"
	"lendsim/internal/usecase/payment"
	"lendsim/internal/usecase/quote"
	"lendsim/internal/usecase/timeadvance"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gdb, time.Now().UTC()); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	users := mysql.NewUserRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	payments := mysql.NewPaymentRepository(gdb)
	clock := mysql.NewSimClockRepository(gdb)
	uw := mysql.NewGormUoW(gdb)

	h := httpadp.NewHandler(
		quote.NewUsecase(users),
		loanreq.NewUsecase(loans, payments, users, clock),
		approval.NewUsecase(uw),
		payment.NewUsecase(uw, cfg.Engine),
		timeadvance.NewEngine(uw, loans, clock, cfg.Engine),
		adminflow.NewUsecase(uw, loans, users),
		clock,
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)

	api := e.Group("", mw.Identity(), mw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	// borrower surface
	api.GET("/loans/quote", h.QuoteLoan)
	api.POST("/loans", h.RequestLoan)
	api.GET("/loans/:loan_id", h.GetLoan)
	api.GET("/loans/:loan_id/payments", h.ListLoanPayments)
	api.POST("/loans/:loan_id/payments", h.MakePayment)
	api.GET("/my/loans", h.MyLoans)

	// admin surface
	admin := api.Group("/admin", mw.RequireRole(mw.RoleAdmin, mw.RoleSuperAdmin))
	admin.POST("/loans/:loan_id/approve", h.ApproveLoan)
	admin.POST("/loans/:loan_id/reject", h.RejectLoan)
	admin.POST("/loans/:loan_id/edits", h.ProposeLoanEdit)
	admin.POST("/loans/:loan_id/deletion-requests", h.ProposeLoanDeletion)
	admin.POST("/users/:user_id/edits", h.ProposeUserEdit)
	admin.GET("/time", h.GetSimulatedTime)
	admin.POST("/time/advance", h.AdvanceTime)

	// super-admin surface: review staged change requests
	super := api.Group("/admin/actions", mw.RequireRole(mw.RoleSuperAdmin))
	super.GET("/pending", h.ListPendingActions)
	super.POST("/:action_id/review", h.ReviewAction)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
