package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pedalpost/pedalpost-api/models"
)

// StoreInterface is the persistence collaborator. Every logical collection
// exposes a GetAll and a ReplaceAll (delete-all then batch insert, inside a
// single transaction per collection; atomicity across collections is not
// guaranteed), plus a named incrementing counter used for notification ids.
type StoreInterface interface {
	GetOrders() ([]models.Order, error)
	ReplaceOrders(orders []models.Order) error

	GetCustomers() ([]models.Customer, error)
	ReplaceCustomers(customers []models.Customer) error

	GetDailySales() ([]models.DailySale, error)
	ReplaceDailySales(sales []models.DailySale) error
	UpsertDailySale(sale models.DailySale) error
	DeleteDailySale(date string) error

	GetWeeklySales() ([]models.WeeklySale, error)
	ReplaceWeeklySales(sales []models.WeeklySale) error

	GetPredictions() ([]models.Prediction, error)
	ReplacePredictions(predictions []models.Prediction) error

	GetReports() ([]models.Report, error)
	ReplaceReports(reports []models.Report) error

	GetNotifications() ([]models.Notification, error)
	ReplaceSyntheticNotifications(notifications []models.Notification) error
	AppendNotification(notification *models.Notification) error

	NextCounter(name string) (uint, error)
}

// Store implements StoreInterface on top of GORM (postgres or the sqlite
// file fallback).
type Store struct {
	db *gorm.DB
}

var storeInstance StoreInterface

// InitStore initializes the store against the given database connection.
func InitStore(db *gorm.DB) StoreInterface {
	storeInstance = &Store{db: db}
	return storeInstance
}

// GetStore returns the initialized store instance
func GetStore() StoreInterface {
	return storeInstance
}

// SetStore sets the store instance (primarily for testing)
func SetStore(store StoreInterface) {
	storeInstance = store
}

// replaceAll deletes every row of model and batch-inserts records, in one
// transaction. records must be a non-nil pointer to a slice.
func (s *Store) replaceAll(model interface{}, records interface{}, count int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear collection: %w", err)
		}
		if count == 0 {
			return nil
		}
		if err := tx.Create(records).Error; err != nil {
			return fmt.Errorf("failed to insert records: %w", err)
		}
		return nil
	})
}

// GetOrders returns all orders in primary-key order (ledger order).
func (s *Store) GetOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}

// ReplaceOrders replaces the whole orders collection.
func (s *Store) ReplaceOrders(orders []models.Order) error {
	return s.replaceAll(&models.Order{}, &orders, len(orders))
}

// GetCustomers returns all customers in primary-key order.
func (s *Store) GetCustomers() ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.Order("id").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	return customers, nil
}

// ReplaceCustomers replaces the whole customers collection.
func (s *Store) ReplaceCustomers(customers []models.Customer) error {
	return s.replaceAll(&models.Customer{}, &customers, len(customers))
}

// GetDailySales returns the stored daily sale buckets ordered by date.
func (s *Store) GetDailySales() ([]models.DailySale, error) {
	var sales []models.DailySale
	if err := s.db.Order("date").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to load daily sales: %w", err)
	}
	return sales, nil
}

// ReplaceDailySales replaces the whole daily sales collection.
func (s *Store) ReplaceDailySales(sales []models.DailySale) error {
	return s.replaceAll(&models.DailySale{}, &sales, len(sales))
}

// UpsertDailySale writes a single day bucket, used by the single-day
// recompute endpoint.
func (s *Store) UpsertDailySale(sale models.DailySale) error {
	if err := s.db.Save(&sale).Error; err != nil {
		return fmt.Errorf("failed to upsert daily sale %s: %w", sale.Date, err)
	}
	return nil
}

// DeleteDailySale removes the bucket for a date, if stored.
func (s *Store) DeleteDailySale(date string) error {
	if err := s.db.Where("date = ?", date).Delete(&models.DailySale{}).Error; err != nil {
		return fmt.Errorf("failed to delete daily sale %s: %w", date, err)
	}
	return nil
}

// GetWeeklySales returns the stored weekly sale buckets ordered by week key.
func (s *Store) GetWeeklySales() ([]models.WeeklySale, error) {
	var sales []models.WeeklySale
	if err := s.db.Order("week").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to load weekly sales: %w", err)
	}
	return sales, nil
}

// ReplaceWeeklySales replaces the whole weekly sales collection.
func (s *Store) ReplaceWeeklySales(sales []models.WeeklySale) error {
	return s.replaceAll(&models.WeeklySale{}, &sales, len(sales))
}

// GetPredictions returns the stored predictions.
func (s *Store) GetPredictions() ([]models.Prediction, error) {
	var predictions []models.Prediction
	if err := s.db.Order("id").Find(&predictions).Error; err != nil {
		return nil, fmt.Errorf("failed to load predictions: %w", err)
	}
	return predictions, nil
}

// ReplacePredictions replaces the whole predictions collection.
func (s *Store) ReplacePredictions(predictions []models.Prediction) error {
	return s.replaceAll(&models.Prediction{}, &predictions, len(predictions))
}

// GetReports returns the stored reports.
func (s *Store) GetReports() ([]models.Report, error) {
	var reports []models.Report
	if err := s.db.Order("id").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	return reports, nil
}

// ReplaceReports replaces the whole reports collection.
func (s *Store) ReplaceReports(reports []models.Report) error {
	return s.replaceAll(&models.Report{}, &reports, len(reports))
}

// GetNotifications returns notifications with the synthetic entry first and
// user notifications newest-first after it.
func (s *Store) GetNotifications() ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.db.Order("synthetic desc, id desc").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	return notifications, nil
}

// ReplaceSyntheticNotifications replaces only the recalculation-owned
// synthetic entries; user-created notifications are never touched.
func (s *Store) ReplaceSyntheticNotifications(notifications []models.Notification) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("synthetic = ?", true).Delete(&models.Notification{}).Error; err != nil {
			return fmt.Errorf("failed to clear synthetic notifications: %w", err)
		}
		for i := range notifications {
			notifications[i].Synthetic = true
			if notifications[i].ID == 0 {
				id, err := nextCounterTx(tx, "notifications")
				if err != nil {
					return err
				}
				notifications[i].ID = id
			}
			if err := tx.Create(&notifications[i]).Error; err != nil {
				return fmt.Errorf("failed to insert synthetic notification: %w", err)
			}
		}
		return nil
	})
}

// AppendNotification stores a user-created notification, assigning its id
// from the notifications counter when unset.
func (s *Store) AppendNotification(notification *models.Notification) error {
	if notification.ID == 0 {
		id, err := s.NextCounter("notifications")
		if err != nil {
			return err
		}
		notification.ID = id
	}
	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to append notification: %w", err)
	}
	return nil
}

// NextCounter increments and returns the named counter.
func (s *Store) NextCounter(name string) (uint, error) {
	var value uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		v, err := nextCounterTx(tx, name)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	return value, err
}

func nextCounterTx(tx *gorm.DB, name string) (uint, error) {
	var counter models.Counter
	if err := tx.Where(models.Counter{Name: name}).FirstOrCreate(&counter).Error; err != nil {
		return 0, fmt.Errorf("failed to load counter %s: %w", name, err)
	}
	counter.Value++
	if err := tx.Save(&counter).Error; err != nil {
		return 0, fmt.Errorf("failed to advance counter %s: %w", name, err)
	}
	return counter.Value, nil
}
