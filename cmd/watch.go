package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/achilleasa/luxport/api"
	"github.com/achilleasa/luxport/export"
	"github.com/achilleasa/luxport/props"
	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli"
)

// Changes arriving within this window trigger a single re-export.
const watchDebounce = 250 * time.Millisecond

// WatchScene re-exports a scene every time its file changes. All passes
// share one interactive session bound to a live recorder; the accumulated
// scene properties are saved after every pass.
func WatchScene(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	cfg.Output.Mode = string(api.ModeLive)
	cfg.Scene.Interactive = true

	scenePath, err := sceneArg(ctx)
	if err != nil {
		return err
	}
	scenePath, err = filepath.Abs(scenePath)
	if err != nil {
		return err
	}

	dir, err := cfg.OutputDir()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	rec := api.NewRecorder()
	luxScene := props.NewScene()
	session := export.NewSession(cfg, rec, luxScene).WithAssetDir(filepath.Dir(scenePath))

	runPass := func() {
		doc, err := loadScene(scenePath)
		if err != nil {
			logger.Errorf("could not load scene: %s", err.Error())
			return
		}

		rec.Reset()
		stats, err := session.Export(doc)
		if err != nil {
			logger.Errorf("export pass %d failed: %s", session.Passes()+1, err.Error())
			return
		}

		scnPath := filepath.Join(dir, baseName(cfg, doc)+".scn")
		if err = luxScene.Save(scnPath); err != nil {
			logger.Errorf("could not save %s: %s", scnPath, err.Error())
			return
		}
		logger.Noticef("pass %d: %d statements, %d scene edits; wrote %s", session.Passes(), len(rec.Statements), luxScene.Edits(), scnPath)
		displayStats(doc.Name(), stats)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Editors often replace files instead of writing them in place so the
	// parent dir is watched.
	if err = watcher.Add(filepath.Dir(scenePath)); err != nil {
		return err
	}

	runPass()
	logger.Noticef("watching %s for changes; press ctrl+c to exit", scenePath)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	var debounce <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != scenePath || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warningf("watcher error: %s", err.Error())
		case <-debounce:
			debounce = nil
			runPass()
		case <-interrupt:
			logger.Notice("stopped watching")
			return nil
		}
	}
}
