package lifecycle

import "errors"

var (
	// ErrWorkerExists 同名协程已存在
	ErrWorkerExists = errors.New("worker already exists")

	// ErrWorkerNotFound 协程不存在
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrShutdownTimeout 退出超时
	ErrShutdownTimeout = errors.New("shutdown timeout")

	// ErrAlreadyRunning 管理器已在运行
	ErrAlreadyRunning = errors.New("manager already running")

	// ErrStopping 管理器正在退出，不再接受新协程
	ErrStopping = errors.New("manager is stopping")
)
