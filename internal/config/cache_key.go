package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// LookupRecordKey returns the cache key for a certificate record lookup.
func (r *CacheKeyStruct) LookupRecordKey(rollNo string) string {
	return fmt.Sprintf("vault:record:%s", rollNo)
}

// ExportJobKey returns the cache key for an export job's state.
func (r *CacheKeyStruct) ExportJobKey(jobID string) string {
	return fmt.Sprintf("vault:export:%s", jobID)
}

// ExportProgressChannel returns the pubsub channel for export stage updates.
func (r *CacheKeyStruct) ExportProgressChannel(jobID string) string {
	return fmt.Sprintf("vault:export:%s:progress", jobID)
}

// EventListKey returns the cache key for the public event catalogue.
func (r *CacheKeyStruct) EventListKey() string {
	return "events:catalogue"
}

var CacheKey = NewCacheKeyStruct()
