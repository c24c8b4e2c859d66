// Package extract implements the metadata-only side of the pipeline: it asks
// the extraction backend about a URL and maps the raw answer into
// model.VideoMetadata, classifying formats into video and audio-only.
package extract
