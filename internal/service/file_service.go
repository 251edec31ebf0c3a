package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"spreadsheet-analytics-server/config"
	"spreadsheet-analytics-server/internal/model"
	"spreadsheet-analytics-server/internal/parser"
	"spreadsheet-analytics-server/internal/ports"
	"spreadsheet-analytics-server/internal/util"
)

// rowBatchSize : размер партии вставки строк
const rowBatchSize = 1000

// ErrInvalidUpload : файл отклонён на этапе приёма (формат, MIME или размер)
var ErrInvalidUpload = errors.New("файл не принят")

// ErrAccessDenied : файл существует, но пользователю недоступен
var ErrAccessDenied = errors.New("доступ запрещён")

// ErrInvalidArgument : некорректные параметры запроса
var ErrInvalidArgument = errors.New("некорректный запрос")

// allowedMimeTypes : зеркало списка поддерживаемых расширений
var allowedMimeTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel":                                          true,
	"text/csv":                                                          true,
}

type FileService struct {
	fileRepository  ports.FileRepository
	rowRepository   ports.RowRepository
	shareRepository ports.ShareRepository
	cacheRepository ports.CacheRepository
	userRepository  ports.UserRepository
	storage         ports.ObjectStorage
	parser          ports.FileParser
	pool            ports.TaskPool
	database        *config.Database
	uploadConfig    *config.UploadConfig
	ttl             time.Duration
}

func NewFileService(
	fileRepository ports.FileRepository,
	rowRepository ports.RowRepository,
	shareRepository ports.ShareRepository,
	cacheRepository ports.CacheRepository,
	userRepository ports.UserRepository,
	storage ports.ObjectStorage,
	fileParser ports.FileParser,
	pool ports.TaskPool,
	database *config.Database,
	uploadConfig *config.UploadConfig,
	ttl time.Duration,
) *FileService {
	return &FileService{
		fileRepository:  fileRepository,
		rowRepository:   rowRepository,
		shareRepository: shareRepository,
		cacheRepository: cacheRepository,
		userRepository:  userRepository,
		storage:         storage,
		parser:          fileParser,
		pool:            pool,
		database:        database,
		uploadConfig:    uploadConfig,
		ttl:             ttl,
	}
}

// UploadFile : принимает файл, сохраняет байты на диск, создаёт запись и
// ставит разбор в очередь. Возвращает запись сразу, не дожидаясь обработки.
func (s *FileService) UploadFile(ctx context.Context, upload *model.FileUpload) (*model.UploadedFile, error) {
	ext := strings.ToLower(filepath.Ext(upload.OriginalName))
	if !parser.IsSupportedFormat(ext) {
		return nil, fmt.Errorf("%w: недопустимое расширение %q", ErrInvalidUpload, ext)
	}
	if upload.MimeType != "" && !allowedMimeTypes[upload.MimeType] {
		return nil, fmt.Errorf("%w: недопустимый MIME-тип %q", ErrInvalidUpload, upload.MimeType)
	}
	if int64(len(upload.Content)) > s.uploadConfig.MaxSizeBytes {
		return nil, fmt.Errorf("%w: размер %d байт превышает лимит %d",
			ErrInvalidUpload, len(upload.Content), s.uploadConfig.MaxSizeBytes)
	}

	fileUUID := uuid.New().String()
	filename := fileUUID + ext
	storagePath := filepath.Join(s.uploadConfig.Dir, filename)

	if err := os.MkdirAll(s.uploadConfig.Dir, 0o755); err != nil {
		return nil, util.LogError("[FileService] не удалось создать каталог загрузок", err)
	}
	if err := os.WriteFile(storagePath, upload.Content, 0o644); err != nil {
		s.removeUploadedFile(storagePath)
		return nil, util.LogError("[FileService] не удалось сохранить файл", err)
	}

	file := &model.UploadedFile{
		UUID:         fileUUID,
		OwnerUUID:    upload.OwnerUUID,
		Filename:     filename,
		OriginalName: upload.OriginalName,
		StoragePath:  storagePath,
		SizeBytes:    int64(len(upload.Content)),
		MimeType:     upload.MimeType,
		Status:       model.FileStatusUploading,
		Sheets:       model.SheetSummaries{},
		Tags:         pq.StringArray{},
	}

	if err := s.fileRepository.Create(ctx, s.database.DB, file); err != nil {
		s.removeUploadedFile(storagePath)
		return nil, util.LogError("[FileService] не удалось сохранить запись о файле", err)
	}

	if err := s.fileRepository.UpdateStatus(ctx, s.database.DB, fileUUID,
		model.FileStatusUploading, model.FileStatusProcessing); err != nil {
		s.removeUploadedFile(storagePath)
		return nil, err
	}
	file.Status = model.FileStatusProcessing

	if _, err := s.pool.Submit("process:"+fileUUID, func(taskCtx context.Context) {
		s.processFile(taskCtx, file)
	}); err != nil {
		s.failProcessing(fileUUID, fmt.Sprintf("обработка не запущена: %v", err))
		s.removeUploadedFile(storagePath)
		return nil, util.LogError("[FileService] не удалось поставить файл в очередь", err)
	}

	log.Printf("[FileService] файл %s принят, обработка поставлена в очередь", upload.OriginalName)

	return file, nil
}

// processFile : фоновый разбор файла. Порядок: разбор книги -> вставка строк
// партиями -> завершение записи с агрегатами -> архив байтов в S3.
// MarkCompleted идёт последним: пока строки не вставлены целиком, запись
// остаётся в processing и любая ошибка переводит её в error.
func (s *FileService) processFile(ctx context.Context, file *model.UploadedFile) {
	started := time.Now()

	result, err := s.parser.ParseFile(file.StoragePath, file.OriginalName)
	if err != nil {
		s.failProcessing(file.UUID, err.Error())
		return
	}

	for _, sheet := range result.Sheets {
		if sheet.IsEmpty {
			continue
		}
		if err := s.insertSheetRows(ctx, file.UUID, sheet); err != nil {
			if ctx.Err() != nil {
				s.failProcessing(file.UUID, "превышено время обработки файла")
			} else {
				s.failProcessing(file.UUID, err.Error())
			}
			return
		}
	}

	if err := s.fileRepository.MarkCompleted(ctx, s.database.DB, file.UUID,
		result.TotalRows(), result.TotalColumns(), result.Summaries(),
		time.Since(started).Milliseconds()); err != nil {
		s.failProcessing(file.UUID, err.Error())
		return
	}

	s.archiveOriginal(file)

	log.Printf("[FileService] файл %s обработан: %d строк, %d листов, %v",
		file.OriginalName, result.TotalRows(), result.TotalSheets, time.Since(started))
}

// insertSheetRows : вставляет строки листа последовательными партиями;
// row_index сквозной в пределах листа, нумерация с 1
func (s *FileService) insertSheetRows(ctx context.Context, fileUUID string, sheet *parser.ParsedSheet) error {
	headers := sheet.Summary.Headers
	dataTypes := sheet.Summary.DataTypes

	typeNames := make([]string, len(dataTypes))
	for i, t := range dataTypes {
		typeNames[i] = string(t)
	}

	batch := make([]model.DataRow, 0, rowBatchSize)
	for i, data := range sheet.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		status, issues := parser.ValidateRow(data, headers, dataTypes)
		batch = append(batch, model.DataRow{
			FileUUID:         fileUUID,
			SheetName:        sheet.Summary.Name,
			RowIndex:         i + 1,
			Data:             data,
			Headers:          pq.StringArray(headers),
			DataTypes:        pq.StringArray(typeNames),
			ValidationStatus: status,
			ValidationErrors: issues,
			SearchableText:   parser.SearchableText(data, headers),
			ProcessedAt:      time.Now(),
		})

		if len(batch) == rowBatchSize {
			if err := s.rowRepository.InsertBatch(ctx, s.database.DB, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		return s.rowRepository.InsertBatch(ctx, s.database.DB, batch)
	}

	return nil
}

// removeUploadedFile : убирает байты с диска, когда приём сорвался;
// неудача только логируется
func (s *FileService) removeUploadedFile(storagePath string) {
	if err := os.Remove(storagePath); err != nil && !os.IsNotExist(err) {
		log.Printf("[FileService] не удалось убрать файл %s: %v", storagePath, err)
	}
}

// failProcessing : переводит запись в error; пишем через отдельный контекст,
// потому что контекст задачи к этому моменту может быть уже отменён
func (s *FileService) failProcessing(fileUUID string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.fileRepository.MarkError(ctx, s.database.DB, fileUUID, message); err != nil {
		log.Printf("[FileService] не удалось записать ошибку обработки файла %s: %v", fileUUID, err)
	}
}

// archiveOriginal : заливает исходные байты в S3; неудача не влияет на статус
func (s *FileService) archiveOriginal(file *model.UploadedFile) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	reader, err := os.Open(file.StoragePath)
	if err != nil {
		log.Printf("[FileService] архивирование: не удалось открыть %s: %v", file.StoragePath, err)
		return
	}
	defer reader.Close()

	if err := s.storage.UploadObject(ctx, file.Filename, reader, file.MimeType); err != nil {
		log.Printf("[FileService] не удалось заархивировать файл %s: %v", file.Filename, err)
	}
}

// GetFile : метаданные файла с правами доступа и ссылкой на скачивание;
// сперва кэш, затем БД. Чтение отмечает last_accessed.
func (s *FileService) GetFile(ctx context.Context, fileUUID string, userUUID string) (*model.FileDetails, error) {
	allowed, err := s.shareRepository.HasAccess(ctx, s.database.DB, fileUUID, userUUID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrAccessDenied
	}

	file, err := s.cacheRepository.GetFile(ctx, fileUUID)
	if err != nil {
		log.Printf("[FileService] ошибка чтения кэша: %v", err)
	}

	if file == nil {
		file, err = s.fileRepository.GetByUUID(ctx, s.database.DB, fileUUID)
		if err != nil {
			return nil, util.LogError("[FileService] файл не найден", err)
		}

		if err := s.cacheRepository.SetFile(ctx, file); err != nil {
			log.Printf("[FileService] ошибка кэширования файла: %v", err)
		}
	} else {
		log.Printf("[FileService] файл %s взят из кэша Redis", file.OriginalName)
	}

	if err := s.fileRepository.TouchLastAccessed(ctx, s.database.DB, fileUUID); err != nil {
		log.Printf("[FileService] не удалось отметить чтение файла %s: %v", fileUUID, err)
	}

	var shares []model.FileShare
	if file.OwnerUUID == userUUID {
		shares, err = s.shareRepository.ListShares(ctx, s.database.DB, fileUUID)
		if err != nil {
			log.Printf("[FileService] не удалось получить список доступов: %v", err)
			shares = []model.FileShare{}
		}
	}

	var downloadURL string
	if file.Status == model.FileStatusCompleted {
		downloadURL, err = s.storage.GeneratePresignedGetURL(ctx, file.Filename, s.ttl)
		if err != nil {
			log.Printf("[FileService] не удалось сгенерировать ссылку на скачивание: %v", err)
			downloadURL = ""
		}
	}

	return &model.FileDetails{
		File:        file,
		Shares:      shares,
		DownloadURL: downloadURL,
	}, nil
}

// ListFiles : файлы пользователя и расшаренные на него
func (s *FileService) ListFiles(ctx context.Context, userUUID string, filter model.FileFilter) ([]model.UploadedFile, int, error) {
	filter.OwnerUUID = userUUID
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	return s.fileRepository.List(ctx, s.database.DB, filter)
}

// GetFileRows : строки данных файла в порядке row_index
func (s *FileService) GetFileRows(ctx context.Context, fileUUID string, userUUID string, sheetName string, page int, limit int) ([]model.DataRow, int, error) {
	allowed, err := s.shareRepository.HasAccess(ctx, s.database.DB, fileUUID, userUUID)
	if err != nil {
		return nil, 0, err
	}
	if !allowed {
		return nil, 0, ErrAccessDenied
	}

	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}

	return s.rowRepository.ListByFile(ctx, s.database.DB, fileUUID, sheetName, limit, (page-1)*limit)
}

// UpdateFile : владелец меняет описание, теги и публичность
func (s *FileService) UpdateFile(ctx context.Context, fileUUID string, userUUID string, update model.FileMetadataUpdate) (*model.UploadedFile, error) {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByUUID(ctx, exec, fileUUID)
	if err != nil {
		return nil, util.LogError("[FileService] файл не найден", err)
	}
	if file.OwnerUUID != userUUID {
		return nil, fmt.Errorf("%w: метаданные меняет только владелец", ErrAccessDenied)
	}

	if err := s.fileRepository.UpdateMetadata(ctx, exec, fileUUID, update); err != nil {
		return nil, err
	}

	updated, err := s.fileRepository.GetByUUID(ctx, exec, fileUUID)
	if err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}

	if err := s.cacheRepository.DeleteFile(ctx, fileUUID); err != nil {
		log.Printf("[FileService] ошибка инвалидации кэша: %v", err)
	}

	return updated, nil
}

// DeleteFile : удаляет запись, строки, локальные байты, объект в S3 и кэш.
// Байты и S3 чистятся в лучшем случае: запись в БД уже удалена.
func (s *FileService) DeleteFile(ctx context.Context, fileUUID string, userUUID string) error {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if err := s.rowRepository.DeleteByFile(ctx, exec, fileUUID); err != nil {
		return err
	}

	storagePath, err := s.fileRepository.Delete(ctx, exec, fileUUID, userUUID)
	if err != nil {
		return util.LogError("[FileService] файл не найден или удаляет не владелец", err)
	}

	if err := commit(); err != nil {
		return util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}

	if err := os.Remove(storagePath); err != nil && !os.IsNotExist(err) {
		log.Printf("[FileService] не удалось удалить локальные байты %s: %v", storagePath, err)
	}

	if err := s.storage.DeleteObject(ctx, filepath.Base(storagePath)); err != nil {
		log.Printf("[FileService] не удалось удалить объект из S3: %v", err)
	}

	if err := s.cacheRepository.DeleteFile(ctx, fileUUID); err != nil {
		log.Printf("[FileService] ошибка инвалидации кэша файла: %v", err)
	}
	if err := s.cacheRepository.DeleteColumns(ctx, fileUUID); err != nil {
		log.Printf("[FileService] ошибка инвалидации кэша колонок: %v", err)
	}

	log.Printf("[FileService] файл %s удалён", fileUUID)

	return nil
}

// ShareFile : владелец выдаёт пользователю право доступа к файлу
func (s *FileService) ShareFile(ctx context.Context, fileUUID string, ownerUUID string, targetUserUUID string, permission string) error {
	switch permission {
	case model.PermissionRead, model.PermissionWrite, model.PermissionAdmin:
	default:
		return fmt.Errorf("%w: неизвестное право %q", ErrInvalidArgument, permission)
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[FileService] не удалось начать транзакцию", err)
	}
	defer rollback()

	file, err := s.fileRepository.GetByUUID(ctx, exec, fileUUID)
	if err != nil {
		return util.LogError("[FileService] файл не найден", err)
	}
	if file.OwnerUUID != ownerUUID {
		return fmt.Errorf("%w: доступ выдаёт только владелец", ErrAccessDenied)
	}

	exists, err := s.userRepository.Exists(ctx, exec, targetUserUUID)
	if err != nil {
		return util.LogError("[FileService] ошибка проверки пользователя", err)
	}
	if !exists {
		return fmt.Errorf("пользователь для шаринга не найден")
	}

	if err := s.shareRepository.Upsert(ctx, exec, &model.FileShare{
		FileUUID:       fileUUID,
		OwnerUUID:      ownerUUID,
		TargetUserUUID: targetUserUUID,
		Permission:     permission,
	}); err != nil {
		return util.LogError("[FileService] не удалось выдать доступ", err)
	}

	if err := commit(); err != nil {
		return util.LogError("[FileService] не удалось закоммитить транзакцию", err)
	}

	if err := s.cacheRepository.DeleteFile(ctx, fileUUID); err != nil {
		log.Printf("[FileService] ошибка инвалидации кэша: %v", err)
	}

	return nil
}
