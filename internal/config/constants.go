package config

// DefaultDatabasePath is the default path for the sync state database
const DefaultDatabasePath = "./weread2yuque.db"
