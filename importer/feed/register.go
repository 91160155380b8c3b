// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package feed

import (
	"github.com/sphereio/customer-import/importer/config"
	"github.com/sphereio/customer-import/importer/types/factory"
)

// Register the feed importers with the factory on package init.
func init() {
	factory.Register(config.FeedFormatJSON, newImporterFunc(NewJSONFetcher))
	factory.Register(config.FeedFormatNDJSON, newImporterFunc(NewNDJSONFetcher))
	factory.Register(config.FeedFormatCSV, newImporterFunc(NewCSVFetcher))
}
