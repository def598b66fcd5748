// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/credentials/insecure"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"

	"github.com/VerseforgeAI/VerseForge/pkg/logging"
	"github.com/VerseforgeAI/VerseForge/services/poet/config"
	"github.com/VerseforgeAI/VerseForge/services/poet/generator"
	"github.com/VerseforgeAI/VerseForge/services/poet/observability"
	"github.com/VerseforgeAI/VerseForge/services/poet/routes"
	"github.com/VerseforgeAI/VerseForge/services/rhyme"
	"github.com/VerseforgeAI/VerseForge/services/sampler"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "verseforge-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("poet-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	cfg, err := config.Load(os.Getenv("VERSEFORGE_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Log.Level),
		LogDir:  cfg.Log.Dir,
		Service: "poet",
		JSON:    cfg.Log.JSON,
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	// --- Init the tracer ---
	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	metrics := observability.InitMetrics()

	// --- Wire the generation pipeline ---
	model := sampler.DefaultModel()
	supplier := sampler.NewSupplier(model,
		sampler.WithPoolSize(cfg.Sampler.PoolSize),
		sampler.WithCharRange(cfg.Sampler.MinChars, cfg.Sampler.MaxChars),
	)

	rhymeClient := rhyme.NewClient(
		rhyme.WithNearRhymeMinScore(cfg.Rhyme.NearRhymeMinScore),
		rhyme.WithRequestTimeout(cfg.Rhyme.RequestTimeout),
		rhyme.WithRequestsPerSecond(cfg.Rhyme.RequestsPerSecond),
	)
	rhymeCache := rhyme.NewCache(rhymeClient,
		rhyme.WithObserver(observability.NewRhymeObserver(metrics)))

	searcher := generator.NewSearcher(supplier, cfg.Generation.SearchBound)
	assembler := generator.NewAssembler(supplier, rhymeCache, searcher)
	orchestrator := generator.NewOrchestrator(assembler,
		generator.WithTimeout(cfg.Generation.Timeout))

	router := gin.Default()
	router.Use(otelgin.Middleware("poet-service"))

	routes.SetupRoutes(router, orchestrator, metrics)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Starting the poet server", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
