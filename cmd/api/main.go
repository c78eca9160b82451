package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/kintai-hq/kintai-backend-go/internal/config"
	appHTTP "github.com/kintai-hq/kintai-backend-go/internal/handler/http"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/database"
	"github.com/kintai-hq/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintai-hq/kintai-backend-go/internal/repository/postgresql"
	adjustmentService "github.com/kintai-hq/kintai-backend-go/internal/service/adjustment"
	attendanceService "github.com/kintai-hq/kintai-backend-go/internal/service/attendance"
	authService "github.com/kintai-hq/kintai-backend-go/internal/service/auth"
	employeeService "github.com/kintai-hq/kintai-backend-go/internal/service/employee"
	leaveService "github.com/kintai-hq/kintai-backend-go/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	balanceRepo := postgresql.NewLeaveBalanceRepository(db)
	grantRepo := postgresql.NewLeaveGrantRepository(db)
	requestRepo := postgresql.NewLeaveRequestRepository(db)
	approvalRepo := postgresql.NewApprovalRepository(db)
	adjustmentRepo := postgresql.NewAdjustmentRepository(db)
	userRepo := postgresql.NewUserAccountRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	ledger := leaveService.NewLedger(balanceRepo, grantRepo)
	adjustments := adjustmentService.NewAdjustmentService(adjustmentRepo)
	leaves := leaveService.NewLeaveService(db, employeeRepo, requestRepo, approvalRepo, ledger, adjustments, adjustmentRepo, logger)
	attendances := attendanceService.NewAttendanceService(employeeRepo, attendanceRepo, logger)
	auths := authService.NewAuthService(userRepo, jwtService)
	employees := employeeService.NewEmployeeService(employeeRepo)

	router := appHTTP.NewRouter(
		jwtService,
		cfg.App.Env,
		appHTTP.NewAuthHandler(auths),
		appHTTP.NewAttendanceHandler(attendances),
		appHTTP.NewLeaveHandler(leaves),
		appHTTP.NewEmployeeHandler(employees),
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("starting server", slog.String("addr", addr), slog.String("env", cfg.App.Env))
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
