package restful

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/okieraised/udashboard/internal/api_response"
	"github.com/okieraised/udashboard/internal/cerrors"
	"github.com/okieraised/udashboard/internal/constants"
	"github.com/okieraised/udashboard/internal/infrastructure/log"
	"github.com/okieraised/udashboard/internal/pipeline"
	"github.com/okieraised/udashboard/internal/utilities"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// outboundProbeAddr only selects a route; nothing is sent to it.
const outboundProbeAddr = "8.8.8.8:80"

type IHealthcheckService interface {
	Healthcheck(ctx *gin.Context, input *HealthcheckInput) (*api_response.BaseOutput, *cerrors.AppError)
}

// EngineStatus is the view of the frame engine the health check reports on.
type EngineStatus interface {
	Ready() bool
	Latest() *pipeline.Frame
}

// ClientCounter reports connected render backends.
type ClientCounter interface {
	ClientCount() int
}

// CacheRatio reports the frame cache hit ratio. *ristretto.Metrics satisfies it
// and reports 0 when metrics are disabled.
type CacheRatio interface {
	Ratio() float64
}

type HealthcheckService struct {
	logger  *log.Logger
	engine  EngineStatus
	clients ClientCounter
	cache   CacheRatio
}

func NewHealthcheckService(options ...func(*HealthcheckService)) *HealthcheckService {
	svc := &HealthcheckService{}
	for _, opt := range options {
		opt(svc)
	}
	logger := log.MustNewECSLogger()
	svc.logger = logger
	return svc
}

func WithEngineStatus(engine EngineStatus) func(*HealthcheckService) {
	return func(c *HealthcheckService) {
		c.engine = engine
	}
}

func WithClientCounter(clients ClientCounter) func(*HealthcheckService) {
	return func(c *HealthcheckService) {
		c.clients = clients
	}
}

func WithCacheRatio(cache CacheRatio) func(*HealthcheckService) {
	return func(c *HealthcheckService) {
		c.cache = cache
	}
}

type HealthcheckInput struct {
	TracerCtx context.Context
	Tracer    trace.Tracer
}

type HealthcheckOutput struct {
	Engine  EngineInfo  `json:"engine"`
	Host    HostInfo    `json:"host"`
	Memory  MemoryInfo  `json:"memory"`
	Network NetworkInfo `json:"network"`
	CPU     CPUInfo     `json:"cpu"`
}

type EngineInfo struct {
	Ready            bool    `json:"ready"`
	LastFrameSeq     uint64  `json:"last_frame_seq"`
	LastSnapshotSeq  uint64  `json:"last_snapshot_seq"`
	FailedGauges     int     `json:"failed_gauges"`
	ConnectedClients int     `json:"connected_clients"`
	CacheHitRatio    float64 `json:"cache_hit_ratio"`
}

type MemoryInfo struct {
	Total       uint64  `json:"total"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
}

type NetworkInfo struct {
	OutboundIP   string   `json:"outbound_ip,omitempty"`
	PhysicalMacs []string `json:"physical_macs"`
}

type HostInfo struct {
	Hostname        string `json:"hostname"`
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version"`
	KernelVersion   string `json:"kernel_version"`
	Arch            string `json:"arch"`
	Uptime          uint64 `json:"uptime"`
}

type CPUInfo struct {
	ModelName     string `json:"model_name,omitempty"`
	PhysicalCores int    `json:"physical_cores"`
	LogicalCores  int    `json:"logical_cores"`
}

func (svc *HealthcheckService) Healthcheck(ctx *gin.Context, input *HealthcheckInput) (*api_response.BaseOutput, *cerrors.AppError) {
	rootCtx, span := input.Tracer.Start(input.TracerCtx, "healthcheck-handler")
	defer span.End()

	resp := &api_response.BaseOutput{}
	lg := svc.logger.With(
		zap.String(constants.APIFieldRequestID, ctx.GetString(constants.APIFieldRequestID)),
	)

	respData := HealthcheckOutput{Engine: svc.engineInfo()}

	_, cSpan := input.Tracer.Start(rootCtx, "get-host-info")
	hostStat, err := host.InfoWithContext(rootCtx)
	if err != nil {
		cSpan.End()
		lg.Error(errors.Wrap(err, "failed to get host info").Error())
		return nil, cerrors.ErrGenericInternalServer
	}
	respData.Host = HostInfo{
		Hostname:        hostStat.Hostname,
		OS:              hostStat.OS,
		Platform:        hostStat.Platform,
		PlatformVersion: hostStat.PlatformVersion,
		KernelVersion:   hostStat.KernelVersion,
		Arch:            hostStat.KernelArch,
		Uptime:          hostStat.Uptime,
	}
	cSpan.End()

	_, cSpan = input.Tracer.Start(rootCtx, "get-memory-info")
	memoryInfo, err := mem.VirtualMemoryWithContext(rootCtx)
	if err != nil {
		cSpan.End()
		lg.Error(errors.Wrap(err, "failed to get memory info").Error())
		return nil, cerrors.ErrGenericInternalServer
	}
	respData.Memory = MemoryInfo{
		Total:       memoryInfo.Total,
		Free:        memoryInfo.Free,
		UsedPercent: memoryInfo.UsedPercent,
	}
	cSpan.End()

	_, cSpan = input.Tracer.Start(rootCtx, "get-cpu-info")
	logicalCores, err := cpu.CountsWithContext(rootCtx, true)
	if err != nil {
		cSpan.End()
		lg.Error(errors.Wrap(err, "failed to get cpu info").Error())
		return nil, cerrors.ErrGenericInternalServer
	}
	respData.CPU.LogicalCores = logicalCores
	// Physical core count and model are missing on some ARM boards.
	if physicalCores, err := cpu.CountsWithContext(rootCtx, false); err == nil {
		respData.CPU.PhysicalCores = physicalCores
	}
	if cpuStat, err := cpu.InfoWithContext(rootCtx); err == nil && len(cpuStat) > 0 {
		respData.CPU.ModelName = cpuStat[0].ModelName
	}
	cSpan.End()

	_, cSpan = input.Tracer.Start(rootCtx, "get-net-info")
	physicalMacs, err := utilities.PhysicalMacAddrs(rootCtx)
	if err != nil {
		lg.Warn(errors.Wrap(err, "failed to get physical mac addresses").Error())
	}
	respData.Network.PhysicalMacs = physicalMacs
	if outboundIP, err := utilities.OutboundIP(rootCtx, outboundProbeAddr); err == nil {
		respData.Network.OutboundIP = outboundIP.String()
	} else {
		lg.Debug(errors.Wrap(err, "failed to get outbound ip").Error())
	}
	cSpan.End()

	resp.Code = cerrors.OK.Code
	resp.Message = cerrors.OK.Message
	resp.Data = respData

	return resp, nil
}

func (svc *HealthcheckService) engineInfo() EngineInfo {
	var info EngineInfo
	if svc.clients != nil {
		info.ConnectedClients = svc.clients.ClientCount()
	}
	if svc.cache != nil {
		info.CacheHitRatio = svc.cache.Ratio()
	}
	if svc.engine == nil {
		return info
	}
	info.Ready = svc.engine.Ready()
	if frame := svc.engine.Latest(); frame != nil {
		info.LastFrameSeq = frame.Seq
		info.LastSnapshotSeq = frame.SnapshotSeq
		for _, page := range frame.Pages {
			for _, g := range page {
				if g.Error != "" {
					info.FailedGauges++
				}
			}
		}
	}
	return info
}
