package fakebulletinsrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/sounak286/RAKSHA-SATHI/bulletins"
)

var _ bulletins.Repo = (*FakeBulletinsRepo)(nil)

type FakeBulletinsRepo struct {
	releases []bulletins.PressRelease
	alerts   []bulletins.CrimeAlert
	lock     sync.RWMutex
}

func NewFakeBulletinsRepo() *FakeBulletinsRepo {
	return &FakeBulletinsRepo{}
}

func (br *FakeBulletinsRepo) ListPressReleases(_ context.Context, limit int) ([]bulletins.PressRelease, error) {
	br.lock.RLock()
	defer br.lock.RUnlock()

	releases := append(make([]bulletins.PressRelease, 0, len(br.releases)), br.releases...)
	sort.SliceStable(releases, func(i, j int) bool {
		if releases[i].Date.Equal(releases[j].Date) {
			return releases[i].ID > releases[j].ID
		}
		return releases[i].Date.After(releases[j].Date)
	})
	if len(releases) > limit {
		releases = releases[:limit]
	}
	return releases, nil
}

func (br *FakeBulletinsRepo) InsertPressRelease(_ context.Context, release *bulletins.PressRelease) (int64, error) {
	br.lock.Lock()
	defer br.lock.Unlock()

	release.ID = int64(len(br.releases) + 1)
	br.releases = append(br.releases, *release)
	return release.ID, nil
}

func (br *FakeBulletinsRepo) ListActiveCrimeAlerts(_ context.Context, limit int) ([]bulletins.CrimeAlert, error) {
	br.lock.RLock()
	defer br.lock.RUnlock()

	alerts := make([]bulletins.CrimeAlert, 0, len(br.alerts))
	for _, a := range br.alerts {
		if a.IsActive {
			alerts = append(alerts, a)
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].CreatedAt.Equal(alerts[j].CreatedAt) {
			return alerts[i].ID > alerts[j].ID
		}
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	if len(alerts) > limit {
		alerts = alerts[:limit]
	}
	return alerts, nil
}

func (br *FakeBulletinsRepo) InsertCrimeAlert(_ context.Context, alert *bulletins.CrimeAlert) (int64, error) {
	br.lock.Lock()
	defer br.lock.Unlock()

	alert.ID = int64(len(br.alerts) + 1)
	br.alerts = append(br.alerts, *alert)
	return alert.ID, nil
}
