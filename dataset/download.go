package dataset

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	neturl "net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jsphweid/melodex/model"
)

// MaestroURL is the MAESTRO v3.0.0 MIDI-only package, ~1276 classical piano
// performances.
const MaestroURL = "https://storage.googleapis.com/magentadata/datasets/maestro/v3.0.0/maestro-v3.0.0-midi.zip"

// Download fetches url (https:// or s3://) into destDir and extracts the
// archive there when it is a zip. Returns the path of the downloaded file.
func Download(url string, destDir string, log *zap.Logger) (string, error) {
	if err := os.MkdirAll(destDir, 0777); err != nil {
		return "", errors.Wrapf(model.ErrInternal, "creating %v: %v", destDir, err)
	}

	dest := filepath.Join(destDir, path.Base(url))
	var err error
	if strings.HasPrefix(url, "s3://") {
		err = downloadS3(url, dest, log)
	} else {
		err = downloadHTTP(url, dest, log)
	}
	if err != nil {
		return "", err
	}

	if strings.HasSuffix(dest, ".zip") {
		if err := ExtractZip(dest, destDir, log); err != nil {
			return "", err
		}
	}
	return dest, nil
}

func downloadHTTP(url string, dest string, log *zap.Logger) error {
	resp, err := http.Get(url)
	if err != nil {
		return errors.Wrapf(model.ErrInternal, "fetching %v: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errors.Wrapf(model.ErrNotFound, "%v", url)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(model.ErrInternal, "fetching %v: HTTP %v", url, resp.Status)
	}

	size := "unknown size"
	if resp.ContentLength > 0 {
		size = humanize.Bytes(uint64(resp.ContentLength))
	}
	log.Info("downloading", zap.String("url", url), zap.String("size", size))

	f, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(model.ErrInternal, "creating %v: %v", dest, err)
	}
	defer f.Close()

	written, err := io.Copy(f, resp.Body)
	if err != nil {
		os.Remove(dest) // drop the partial download
		return errors.Wrapf(model.ErrInternal, "downloading %v: %v", url, err)
	}

	log.Info("download complete",
		zap.String("dest", dest),
		zap.String("size", humanize.Bytes(uint64(written))))
	return nil
}

func downloadS3(rawURL string, dest string, log *zap.Logger) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return errors.Wrapf(model.ErrInvalidArgument, "bad s3 url %v: %v", rawURL, err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return errors.Wrapf(model.ErrInvalidArgument, "s3 url needs bucket and key: %v", rawURL)
	}

	sess, err := session.NewSession()
	if err != nil {
		return errors.Wrapf(model.ErrInternal, "creating aws session: %v", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(model.ErrInternal, "creating %v: %v", dest, err)
	}
	defer f.Close()

	log.Info("downloading from s3", zap.String("bucket", bucket), zap.String("key", key))

	downloader := s3manager.NewDownloader(sess)
	written, err := downloader.Download(f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		os.Remove(dest)
		return errors.Wrapf(model.ErrInternal, "downloading s3://%v/%v: %v", bucket, key, err)
	}

	log.Info("download complete",
		zap.String("dest", dest),
		zap.String("size", humanize.Bytes(uint64(written))))
	return nil
}

// VerifyChecksum compares the SHA-256 of the file at path against expected,
// a hex string.
func VerifyChecksum(path string, expected string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, errors.Wrapf(model.ErrNotFound, "%v", path)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return false, errors.Wrapf(model.ErrInternal, "hashing %v: %v", path, err)
	}
	actual := hex.EncodeToString(h.Sum(nil))
	return strings.EqualFold(actual, expected), nil
}

// ExtractZip unpacks zipPath under destDir. Entries escaping destDir are
// skipped.
func ExtractZip(zipPath string, destDir string, log *zap.Logger) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return errors.Wrapf(model.ErrCorrupt, "opening archive %v: %v", zipPath, err)
	}
	defer r.Close()

	cleanDest := filepath.Clean(destDir)
	for _, f := range r.File {
		target := filepath.Join(destDir, f.Name)
		if !strings.HasPrefix(filepath.Clean(target), cleanDest+string(os.PathSeparator)) {
			log.Warn("skipping archive entry outside dest dir", zap.String("name", f.Name))
			continue
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0777); err != nil {
				return errors.Wrapf(model.ErrInternal, "creating %v: %v", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0777); err != nil {
			return errors.Wrapf(model.ErrInternal, "creating %v: %v", filepath.Dir(target), err)
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}

	log.Info("extracted archive", zap.String("archive", zipPath), zap.Int("entries", len(r.File)))
	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(model.ErrCorrupt, "opening archive entry %v: %v", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return errors.Wrapf(model.ErrInternal, "creating %v: %v", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return errors.Wrapf(model.ErrInternal, "extracting %v: %v", f.Name, err)
	}
	return nil
}
