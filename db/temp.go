package db

import (
	"sort"
	"sync"
	"time"
)

type TempDriver struct {
	apps  map[string]App
	audit map[string][]AuditRecord
	lock  sync.RWMutex
}

func (tdb *TempDriver) Init(_ any) error {
	tdb.apps = make(map[string]App)
	tdb.audit = make(map[string][]AuditRecord)
	return nil
}

func (tdb *TempDriver) Close() error {
	return nil
}

func (tdb *TempDriver) AppById(appId string) (*App, error) {
	tdb.lock.RLock()
	defer tdb.lock.RUnlock()
	app, ok := tdb.apps[appId]
	if !ok {
		return nil, ErrAppNotFound
	}
	return &app, nil
}

func (tdb *TempDriver) SetApp(app *App) error {
	if app == nil || app.Id == "" {
		return ErrSetApp
	}
	tdb.lock.Lock()
	defer tdb.lock.Unlock()
	tdb.apps[app.Id] = *app
	return nil
}

func (tdb *TempDriver) DeleteApp(appId string) error {
	tdb.lock.Lock()
	defer tdb.lock.Unlock()
	if _, ok := tdb.apps[appId]; !ok {
		return ErrAppNotFound
	}
	delete(tdb.apps, appId)
	return nil
}

func (tdb *TempDriver) AddAudit(record *AuditRecord) error {
	if record == nil || record.AppId == "" {
		return ErrSetAudit
	}
	tdb.lock.Lock()
	defer tdb.lock.Unlock()
	tdb.audit[record.AppId] = append(tdb.audit[record.AppId], *record)
	return nil
}

func (tdb *TempDriver) AuditByApp(appId string, limit int) ([]*AuditRecord, error) {
	tdb.lock.RLock()
	defer tdb.lock.RUnlock()
	stored := tdb.audit[appId]
	records := make([]*AuditRecord, 0, len(stored))
	for i := range stored {
		record := stored[i]
		records = append(records, &record)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].VerifiedAt.After(records[j].VerifiedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (tdb *TempDriver) DeleteAuditBefore(t time.Time) error {
	tdb.lock.Lock()
	defer tdb.lock.Unlock()
	for appId, records := range tdb.audit {
		kept := records[:0]
		for _, record := range records {
			if !record.VerifiedAt.Before(t) {
				kept = append(kept, record)
			}
		}
		if len(kept) == 0 {
			delete(tdb.audit, appId)
			continue
		}
		tdb.audit[appId] = kept
	}
	return nil
}
