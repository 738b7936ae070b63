package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/spf13/pflag"

	"resume-screener-go/internal/analytics"
	"resume-screener-go/internal/api/handler"
	"resume-screener-go/internal/api/router"
	"resume-screener-go/internal/config"
	"resume-screener-go/internal/embedding"
	"resume-screener-go/internal/extractor"
	appCoreLogger "resume-screener-go/internal/logger"
	"resume-screener-go/internal/matching"
	"resume-screener-go/internal/metrics"
	"resume-screener-go/internal/parser"
	"resume-screener-go/internal/screener"
	"resume-screener-go/internal/telemetry"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	glog.SetLogger(hertzadapter.From(appCoreLogger.Logger))
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		provider, err := telemetry.InitProvider(ctx, cfg.Telemetry)
		if err != nil {
			glog.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				glog.Warnf("链路追踪关闭失败: %v", err)
			}
		}()
		glog.Info("链路追踪初始化成功")
	}

	if cfg.Metrics.Enabled {
		metrics.Init()
		go func() {
			glog.Infof("指标端点监听地址: %s", cfg.Metrics.Address)
			if err := http.ListenAndServe(cfg.Metrics.Address, metrics.Handler()); err != nil {
				glog.Errorf("指标端点启动失败: %v", err)
			}
		}()
	}

	var loader parser.DocumentLoader
	if cfg.Parser.Type == "tika" && cfg.Tika.ServerURL != "" {
		var tikaOptions []parser.TikaOption
		if cfg.Tika.Timeout > 0 {
			tikaOptions = append(tikaOptions, parser.WithTimeout(time.Duration(cfg.Tika.Timeout)*time.Second))
		}
		tikaOptions = append(tikaOptions, parser.WithTikaLogger(log.New(os.Stderr, "[TikaMain] ", log.LstdFlags)))
		loader = parser.NewTikaDocumentLoader(cfg.Tika.ServerURL, tikaOptions...)
		glog.Info("使用Tika文档解析器")
	} else {
		loader, err = parser.NewEinoDocumentLoader(ctx, parser.WithEinoLogger(log.New(os.Stderr, "[EinoMain] ", log.LstdFlags)))
		if err != nil {
			glog.Fatalf("创建Eino文档解析器失败: %v", err)
		}
		glog.Info("使用Eino文档解析器")
	}

	embedder, err := parser.NewOpenAIEmbedder(cfg.Embedding)
	if err != nil {
		glog.Fatalf("初始化Embedder失败: %v", err)
	}
	glog.Infof("Embedder初始化成功, 配置维度: %d", embedder.GetDimensions())

	vocab, err := extractor.NewVocabulary(cfg.Extractor)
	if err != nil {
		glog.Fatalf("构建实体词表失败: %v", err)
	}
	normalizer := extractor.NewNormalizer(vocab, extractor.NewProseRecognizer(vocab))
	glog.Info("实体抽取器初始化成功")

	engine := matching.NewEngine(embedding.NewCache(embedder))
	pipeline := screener.NewScreener(cfg, loader, normalizer, engine, analytics.NewAnalyzer())
	screenerHandler := handler.NewScreenerHandler(cfg, pipeline)
	glog.Info("筛选流水线初始化成功")

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, cfg, screenerHandler)
	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)

	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}
