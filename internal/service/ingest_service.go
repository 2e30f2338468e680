package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"time"

	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/consts"
	"Pulseboard/internal/pkg/extractor"
	"Pulseboard/internal/pkg/logger"
	"Pulseboard/internal/pkg/minio"
	"Pulseboard/internal/pkg/mongo"
	"Pulseboard/internal/pkg/period"
	"Pulseboard/internal/repository"
)

// Upload 一个上传的导出文件
type Upload struct {
	Name string
	Data []byte
}

// IngestRequest 一次导入，三个槽位按识别出的文件类型分派，放错槽位只产生警告
type IngestRequest struct {
	Workspace string
	Followers *Upload
	Visitors  *Upload
	Content   *Upload
	// Persist 为 true 时必须三类文件齐全
	Persist bool
	// Archive 为 true 时把原始文件存入归档桶
	Archive  bool
	Operator uint64
}

func (r *IngestRequest) uploads() []*Upload {
	list := make([]*Upload, 0, 3)
	for _, u := range []*Upload{r.Followers, r.Visitors, r.Content} {
		if u != nil && len(u.Data) > 0 {
			list = append(list, u)
		}
	}
	return list
}

// IngestNotifier 导入完成后的通知
type IngestNotifier interface {
	PublishIngest(ctx context.Context, event *dto.IngestEventDTO) error
}

// Notifiers 依次通知，单个失败不影响其余
type Notifiers []IngestNotifier

func (n Notifiers) PublishIngest(ctx context.Context, event *dto.IngestEventDTO) error {
	var errs []error
	for _, notifier := range n {
		if err := notifier.PublishIngest(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type IngestService interface {
	Ingest(ctx context.Context, req *IngestRequest) (*dto.IngestResultDTO, error)
	IngestFromArchive(ctx context.Context, req *dto.ImportRequestDTO) (*dto.IngestResultDTO, error)
}

// IngestOptions 导入行为开关
type IngestOptions struct {
	// Atomic 为 true 时四类数据在一个事务中提交
	Atomic bool
}

type ingestServiceImpl struct {
	metricsRepo    repository.MetricsRepo
	resolver       WorkspaceResolver
	metricsService MetricsService
	changeLog      ChangeLogService
	notifier       IngestNotifier
	clock          period.Clock
	opts           IngestOptions
}

// NewIngestService notifier 可以为 nil
func NewIngestService(
	metricsRepo repository.MetricsRepo,
	resolver WorkspaceResolver,
	metricsService MetricsService,
	changeLog ChangeLogService,
	notifier IngestNotifier,
	clock period.Clock,
	opts IngestOptions,
) IngestService {
	return &ingestServiceImpl{
		metricsRepo:    metricsRepo,
		resolver:       resolver,
		metricsService: metricsService,
		changeLog:      changeLog,
		notifier:       notifier,
		clock:          clock,
		opts:           opts,
	}
}

// extraction 三个文件的提取结果
type extraction struct {
	data     model.Dataset
	supplied Supplied
	files    map[extractor.Family]*Upload
	warnings []string
}

func (s *ingestServiceImpl) Ingest(ctx context.Context, req *IngestRequest) (*dto.IngestResultDTO, error) {
	if req == nil || req.Workspace == "" {
		return nil, ErrParamInvalid
	}
	ctx = logger.WithWorkspace(ctx, req.Workspace)

	uploads := req.uploads()
	if len(uploads) == 0 || (req.Persist && len(uploads) < 3) {
		return nil, ErrIncompleteUpload
	}

	ex, err := s.extract(ctx, uploads)
	if err != nil {
		return nil, err
	}
	if req.Persist && !ex.supplied.All() {
		return nil, ErrIncompleteUpload
	}

	result := &dto.IngestResultDTO{
		Workspace: req.Workspace,
		Rows: map[string]int{
			string(model.TableFollowers):      len(ex.data.Followers),
			string(model.TableVisitorMetrics): len(ex.data.Visitors),
			string(model.TableContentMetrics): len(ex.data.Content),
			string(model.TablePosts):          len(ex.data.Posts),
		},
		Warnings: ex.warnings,
	}

	if req.Archive {
		result.Archived = s.archive(ctx, req.Workspace, ex.files, result)
	}

	if req.Persist {
		result.Failed = s.persist(ctx, req.Workspace, &ex.data)
		result.Persisted = len(result.Failed) == 0
		if !result.Persisted {
			result.Warnings = append(result.Warnings, fmt.Sprintf("部分数据写入失败: %v", result.Failed))
		}
		s.afterPersist(ctx, req, result)
	}

	resolved, err := s.resolver.Resolve(ctx, ResolveRequest{
		Workspace: req.Workspace,
		Fresh:     &ex.data,
		Supplied:  ex.supplied,
	})
	switch {
	case errors.Is(err, ErrNoData):
		result.Warnings = append(result.Warnings, ErrNoData.Error())
	case err != nil:
		return nil, err
	default:
		result.Source = string(resolved.Source)
		result.Summary = Summarize(resolved, period.Lifetime, s.clock.Today())
	}
	return result, nil
}

// extract 逐个识别文件类型并提取，日期错误直接失败，缺表只记警告
func (s *ingestServiceImpl) extract(ctx context.Context, uploads []*Upload) (*extraction, error) {
	ex := &extraction{files: make(map[extractor.Family]*Upload, 3)}
	for _, u := range uploads {
		if err := s.extractOne(ctx, u, ex); err != nil {
			return nil, err
		}
	}
	return ex, nil
}

func (s *ingestServiceImpl) extractOne(ctx context.Context, u *Upload, ex *extraction) error {
	wb, err := extractor.Open(bytes.NewReader(u.Data))
	if err != nil {
		log.WarnContext(ctx, "open workbook failed", "file", u.Name, "err", err)
		return fmt.Errorf("%w: %s", ErrMalformedWorkbook, u.Name)
	}
	defer func() {
		_ = wb.Close()
	}()

	metrics, err := extractor.ExtractMetrics(wb)
	if err != nil {
		if errors.Is(err, extractor.ErrMissingSheet) {
			ex.warnings = append(ex.warnings, fmt.Sprintf("%s: %s", u.Name, ErrMissingSheet.Error()))
			return nil
		}
		return translateExtractError(u.Name, err)
	}

	if _, dup := ex.files[metrics.Family]; dup {
		ex.warnings = append(ex.warnings, fmt.Sprintf("%s: 重复的%s文件，使用后上传的", u.Name, metrics.Family))
	}
	ex.files[metrics.Family] = u

	switch metrics.Family {
	case extractor.FamilyFollowers:
		ex.data.Followers = metrics.Followers
		ex.supplied.Followers = true
	case extractor.FamilyVisitors:
		ex.data.Visitors = metrics.Visitors
		ex.supplied.Visitors = true
	case extractor.FamilyContent:
		ex.data.Content = metrics.Content
		ex.supplied.Content = true
		// 内容文件同时包含帖子表
		posts, err := extractor.ExtractPosts(wb)
		switch {
		case errors.Is(err, extractor.ErrMissingSheet):
			ex.warnings = append(ex.warnings, fmt.Sprintf("%s: 没有 %q 工作表", u.Name, extractor.SheetPosts))
		case err != nil:
			return translateExtractError(u.Name, err)
		default:
			ex.data.Posts = posts
		}
	}
	return nil
}

func translateExtractError(name string, err error) error {
	var dateErr *extractor.MalformedDateError
	if errors.As(err, &dateErr) {
		return fmt.Errorf("%w: %s: %s", ErrMalformedDate, name, dateErr.Error())
	}
	return fmt.Errorf("%w: %s: %s", ErrMalformedWorkbook, name, err.Error())
}

// persist 返回写入失败的表，原始错误只记日志
func (s *ingestServiceImpl) persist(ctx context.Context, workspace string, ds *model.Dataset) []string {
	if s.opts.Atomic {
		if err := s.metricsRepo.SaveDataset(ctx, workspace, ds); err != nil {
			log.ErrorContext(ctx, "save dataset failed", "err", err)
			failed := make([]string, 0, len(model.Tables))
			for _, t := range model.Tables {
				failed = append(failed, string(t))
			}
			return failed
		}
		return nil
	}

	// 四批相互独立，前面成功的不会回滚
	var failed []string
	batches := []struct {
		table model.Table
		save  func() error
	}{
		{model.TableFollowers, func() error { return s.metricsRepo.SaveFollowers(ctx, workspace, ds.Followers) }},
		{model.TableVisitorMetrics, func() error { return s.metricsRepo.SaveVisitorMetrics(ctx, workspace, ds.Visitors) }},
		{model.TableContentMetrics, func() error { return s.metricsRepo.SaveContentMetrics(ctx, workspace, ds.Content) }},
		{model.TablePosts, func() error { return s.metricsRepo.SavePosts(ctx, workspace, ds.Posts) }},
	}
	for _, b := range batches {
		if err := b.save(); err != nil {
			log.ErrorContext(ctx, "save batch failed", "table", b.table, "err", err)
			failed = append(failed, string(b.table))
		}
	}
	return failed
}

func (s *ingestServiceImpl) afterPersist(ctx context.Context, req *IngestRequest, result *dto.IngestResultDTO) {
	if err := s.metricsService.InvalidateCache(ctx, req.Workspace); err != nil {
		log.WarnContext(ctx, "invalidate cache failed", "err", err)
	}

	var affected int64
	for _, n := range result.Rows {
		affected += int64(n)
	}
	s.changeLog.Record(ctx, &mongo.ChangeLogModel{
		Workspace: req.Workspace,
		Action:    consts.ChangeActionIngest,
		Operator:  req.Operator,
		Affected:  affected,
		Payload: map[string]any{
			"rows":     result.Rows,
			"failed":   result.Failed,
			"archived": result.Archived,
		},
	})

	if s.notifier == nil {
		return
	}
	event := &dto.IngestEventDTO{
		Workspace:  req.Workspace,
		Persisted:  result.Persisted,
		Rows:       result.Rows,
		Failed:     result.Failed,
		Archived:   result.Archived,
		OccurredAt: time.Now(),
	}
	if traceID, ok := ctx.Value(logger.TraceIDKey).(string); ok {
		event.TraceID = traceID
	}
	if err := s.notifier.PublishIngest(ctx, event); err != nil {
		log.WarnContext(ctx, "publish ingest event failed", "err", err)
	}
}

// archive 归档失败不影响导入
func (s *ingestServiceImpl) archive(ctx context.Context, workspace string, files map[extractor.Family]*Upload, result *dto.IngestResultDTO) map[string]string {
	if !minio.Enabled() || len(files) == 0 {
		return nil
	}
	archived := make(map[string]string, len(files))
	now := time.Now()
	for family, u := range files {
		name := minio.ArchiveObjectName(workspace, family.String(), now)
		key, err := minio.UploadFile(ctx, name, bytes.NewReader(u.Data), int64(len(u.Data)), consts.XlsxContentType)
		if err != nil {
			log.WarnContext(ctx, "archive workbook failed", "file", u.Name, "err", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: 归档失败", u.Name))
			continue
		}
		archived[family.String()] = key
	}
	return archived
}

// IngestFromArchive 从归档桶读取文件后导入
func (s *ingestServiceImpl) IngestFromArchive(ctx context.Context, req *dto.ImportRequestDTO) (*dto.IngestResultDTO, error) {
	if !minio.Enabled() {
		return nil, ErrArchiveUnavailable
	}
	if req == nil || req.Workspace == "" {
		return nil, ErrParamInvalid
	}

	in := &IngestRequest{Workspace: req.Workspace, Persist: true}
	if req.Persist != nil {
		in.Persist = *req.Persist
	}

	slots := []struct {
		object string
		dst    **Upload
	}{
		{req.FollowersObject, &in.Followers},
		{req.VisitorsObject, &in.Visitors},
		{req.ContentObject, &in.Content},
	}
	for _, slot := range slots {
		if slot.object == "" {
			continue
		}
		data, err := readObject(ctx, slot.object)
		if err != nil {
			return nil, err
		}
		*slot.dst = &Upload{Name: slot.object, Data: data}
	}
	return s.Ingest(ctx, in)
}

func readObject(ctx context.Context, object string) ([]byte, error) {
	rc, err := minio.GetFile(ctx, object)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rc.Close()
	}()
	return io.ReadAll(rc)
}
